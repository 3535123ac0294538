package lexicon

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// File names inside a lexicon directory.
const (
	CEFRFile      = "cefr.json"
	FrequencyFile = "frequency.json"
	ExamsDir      = "exams"
	SwearFile     = "swear.txt"
	VersionFile   = "VERSION"
)

// LoadReport summarizes what Load read and what it had to drop.
type LoadReport struct {
	Files   []string
	Skipped int
	Issues  []string
}

func (r *LoadReport) skip(format string, args ...any) {
	r.Skipped++
	if len(r.Issues) < 20 {
		r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
	}
}

// Load reads a lexicon directory. Only cefr.json is required; every other
// file is optional. Individual malformed entries are skipped and reported.
func Load(dir, language string) (*Lexicon, LoadReport, error) {
	var report LoadReport
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, report, errors.New("lexicon: directory required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, report, fmt.Errorf("lexicon: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, report, fmt.Errorf("lexicon: %s is not a directory", dir)
	}

	data := Data{Language: language}

	cefrPath := filepath.Join(dir, CEFRFile)
	data.CEFR, err = loadCEFR(cefrPath, &report)
	if err != nil {
		return nil, report, err
	}
	report.Files = append(report.Files, cefrPath)

	freqPath := filepath.Join(dir, FrequencyFile)
	if fileExists(freqPath) {
		data.Frequency, err = loadFrequency(freqPath, &report)
		if err != nil {
			return nil, report, err
		}
		report.Files = append(report.Files, freqPath)
	}

	data.Exams, err = loadExams(filepath.Join(dir, ExamsDir), &report)
	if err != nil {
		return nil, report, err
	}

	swearPath := filepath.Join(dir, SwearFile)
	if fileExists(swearPath) {
		data.Swear, err = loadWordList(swearPath)
		if err != nil {
			return nil, report, err
		}
		report.Files = append(report.Files, swearPath)
	}

	if raw, err := os.ReadFile(filepath.Join(dir, VersionFile)); err == nil {
		data.Version = strings.TrimSpace(string(raw))
	}

	return New(data), report, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func loadCEFR(path string, report *LoadReport) (map[string][]CEFREntry, error) {
	raw, err := readObject(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]CEFREntry, len(raw))
	for lemma, payload := range raw {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			report.skip("%s: %q: %v", CEFRFile, lemma, err)
			continue
		}
		entries := make([]CEFREntry, 0, len(items))
		for _, item := range items {
			var entry CEFREntry
			if err := json.Unmarshal(item, &entry); err != nil {
				report.skip("%s: %q: %v", CEFRFile, lemma, err)
				continue
			}
			if !entry.Level.Known() {
				report.skip("%s: %q: missing level", CEFRFile, lemma)
				continue
			}
			entries = append(entries, entry)
		}
		if len(entries) > 0 {
			out[lemma] = entries
		}
	}
	return out, nil
}

func loadFrequency(path string, report *LoadReport) (map[string]FrequencyEntry, error) {
	raw, err := readObject(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]FrequencyEntry, len(raw))
	for lemma, payload := range raw {
		var entry FrequencyEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			report.skip("%s: %q: %v", FrequencyFile, lemma, err)
			continue
		}
		out[lemma] = entry
	}
	return out, nil
}

func readObject(path string) (map[string]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %s: %w", path, err)
	}
	defer f.Close()
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("lexicon: parse %s: %w", path, err)
	}
	return raw, nil
}

// loadExams reads exams/<id>.json (lemma -> entry) and exams/<id>.csv
// (lemma[,rank[,definition]] with an optional header row).
func loadExams(dir string, report *LoadReport) (map[string]map[string]ExamEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("lexicon: read %s: %w", dir, err)
	}
	out := make(map[string]map[string]ExamEntry)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))
		examID := strings.TrimSuffix(name, filepath.Ext(name))
		var list map[string]ExamEntry
		switch ext {
		case ".json":
			raw, err := readObject(path)
			if err != nil {
				return nil, err
			}
			list = make(map[string]ExamEntry, len(raw))
			for lemma, payload := range raw {
				var entry ExamEntry
				if err := json.Unmarshal(payload, &entry); err != nil {
					report.skip("%s: %q: %v", name, lemma, err)
					continue
				}
				list[lemma] = entry
			}
		case ".csv":
			list, err = loadExamCSV(path, report)
			if err != nil {
				return nil, err
			}
		default:
			continue
		}
		report.Files = append(report.Files, path)
		if existing, ok := out[examID]; ok {
			for k, v := range list {
				existing[k] = v
			}
			continue
		}
		out[examID] = list
	}
	return out, nil
}

func loadExamCSV(path string, report *LoadReport) (map[string]ExamEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	out := make(map[string]ExamEntry)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.skip("%s:%d: %v", filepath.Base(path), line, err)
			continue
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		lemma := strings.TrimSpace(record[0])
		if line == 1 && (strings.EqualFold(lemma, "lemma") || strings.EqualFold(lemma, "word")) {
			continue
		}
		entry := ExamEntry{}
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			rank, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil {
				report.skip("%s:%d: bad rank %q", filepath.Base(path), line, record[1])
				continue
			}
			entry.Rank = rank
		}
		if len(record) > 2 {
			entry.Definition = strings.TrimSpace(record[2])
		}
		out[lemma] = entry
	}
	return out, nil
}

func loadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %s: %w", path, err)
	}
	defer f.Close()
	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	return words, nil
}
