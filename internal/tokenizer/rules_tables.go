package tokenizer

import "vocabsub/internal/vocab"

type cliticLemma struct {
	lemma string
	pos   vocab.POS
}

var cliticLemmas = map[string]cliticLemma{
	"n't": {"not", vocab.PART},
	"'s":  {"'s", vocab.PART},
	"'d":  {"'d", vocab.AUX},
	"'m":  {"be", vocab.AUX},
	"'re": {"be", vocab.AUX},
	"'ve": {"have", vocab.AUX},
	"'ll": {"will", vocab.AUX},
}

func closedSet(pos vocab.POS, words ...string) map[string]vocab.POS {
	out := make(map[string]vocab.POS, len(words))
	for _, w := range words {
		out[w] = pos
	}
	return out
}

var closedClass = func() map[string]vocab.POS {
	out := make(map[string]vocab.POS)
	for _, set := range []map[string]vocab.POS{
		closedSet(vocab.DET, "a", "an", "the", "this", "that", "these", "those", "some", "any", "no",
			"every", "each", "either", "neither", "all", "both", "another", "such", "what", "which", "whose"),
		closedSet(vocab.PRON, "i", "me", "my", "mine", "myself", "you", "your", "yours", "yourself",
			"he", "him", "his", "himself", "she", "her", "hers", "herself", "it", "its", "itself",
			"we", "us", "our", "ours", "ourselves", "they", "them", "their", "theirs", "themselves",
			"who", "whom", "someone", "somebody", "something", "anyone", "anybody", "anything",
			"everyone", "everybody", "everything", "nobody", "nothing", "none"),
		closedSet(vocab.AUX, "am", "is", "are", "was", "were", "be", "been", "being",
			"have", "has", "had", "do", "does", "did", "will", "would", "shall", "should",
			"can", "could", "may", "might", "must", "ca", "wo"),
		closedSet(vocab.ADP, "in", "on", "at", "by", "for", "with", "about", "against", "between",
			"into", "through", "during", "before", "after", "above", "below", "to", "from", "up",
			"down", "of", "off", "over", "under", "around", "across", "toward", "towards", "upon",
			"within", "without", "beside", "beneath", "despite", "throughout", "amid"),
		closedSet(vocab.CCONJ, "and", "but", "or", "nor", "yet", "so"),
		closedSet(vocab.SCONJ, "if", "because", "although", "though", "while", "whereas", "unless",
			"since", "until", "whether", "than", "once"),
		closedSet(vocab.PART, "not", "to"),
		closedSet(vocab.INTJ, "oh", "ah", "hey", "hi", "hello", "yeah", "yes", "okay", "ok", "wow",
			"uh", "um", "hmm", "huh", "bye", "please", "well"),
		closedSet(vocab.ADV, "very", "too", "also", "just", "only", "even", "still", "already",
			"again", "never", "always", "often", "sometimes", "here", "there", "now", "then",
			"when", "where", "why", "how", "nevertheless", "nonetheless", "however", "moreover",
			"furthermore", "perhaps", "maybe", "quite", "rather", "almost", "soon", "ever", "away",
			"back", "out", "together", "yesterday", "today", "tomorrow", "tonight"),
	} {
		for w, pos := range set {
			if _, exists := out[w]; !exists {
				out[w] = pos
			}
		}
	}
	return out
}()

// stopWords follows the common English stop lists; content adverbs such as
// "nevertheless" are deliberately absent.
var stopWords = func() map[string]bool {
	out := make(map[string]bool)
	for w, pos := range closedClass {
		switch pos {
		case vocab.DET, vocab.PRON, vocab.AUX, vocab.ADP, vocab.CCONJ, vocab.SCONJ, vocab.PART:
			out[w] = true
		}
	}
	for _, w := range []string{
		"very", "too", "also", "just", "only", "even", "still", "again", "never", "always",
		"here", "there", "now", "then", "when", "where", "why", "how", "however", "quite",
		"rather", "almost", "ever", "back", "out", "well", "please", "yes", "ok", "okay",
		"get", "got", "go", "make", "made", "say", "said", "see", "seen", "take", "put",
		"much", "many", "more", "most", "less", "least", "few", "own", "same", "other",
	} {
		out[w] = true
	}
	return out
}()

var irregularLemmas = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"has": "have", "had": "have", "does": "do", "did": "do", "done": "do",
	"went": "go", "gone": "go", "said": "say", "made": "make", "got": "get", "gotten": "get",
	"took": "take", "taken": "take", "saw": "see", "seen": "see", "came": "come",
	"knew": "know", "known": "know", "thought": "think", "told": "tell", "found": "find",
	"gave": "give", "given": "give", "felt": "feel", "left": "leave", "kept": "keep",
	"began": "begin", "begun": "begin", "brought": "bring", "bought": "buy", "caught": "catch",
	"taught": "teach", "fought": "fight", "sought": "seek", "ran": "run", "sat": "sit",
	"stood": "stand", "understood": "understand", "wrote": "write", "written": "write",
	"spoke": "speak", "spoken": "speak", "broke": "break", "broken": "break", "chose": "choose",
	"chosen": "choose", "forgot": "forget", "forgotten": "forget", "meant": "mean", "met": "meet",
	"paid": "pay", "sent": "send", "spent": "spend", "built": "build", "lost": "lose",
	"held": "hold", "heard": "hear", "led": "lead", "fell": "fall", "fallen": "fall",
	"grew": "grow", "grown": "grow", "threw": "throw", "thrown": "throw", "drove": "drive",
	"driven": "drive", "rode": "ride", "ridden": "ride", "rose": "rise", "risen": "rise",
	"ate": "eat", "eaten": "eat", "drank": "drink", "drunk": "drink", "swam": "swim",
	"sang": "sing", "sung": "sing", "won": "win", "wore": "wear", "worn": "wear",
	"children": "child", "men": "man", "women": "woman", "people": "person", "feet": "foot",
	"teeth": "tooth", "mice": "mouse", "geese": "goose", "lives": "life", "wives": "wife",
	"knives": "knife", "leaves": "leaf", "selves": "self",
	"better": "good", "best": "good", "worse": "bad", "worst": "bad",
	"me": "I", "him": "he", "her": "she", "us": "we", "them": "they",
}

var irregularNounForms = map[string]vocab.POS{
	"children": vocab.NOUN, "men": vocab.NOUN, "women": vocab.NOUN, "people": vocab.NOUN,
	"feet": vocab.NOUN, "teeth": vocab.NOUN, "mice": vocab.NOUN, "geese": vocab.NOUN,
	"lives": vocab.NOUN, "wives": vocab.NOUN, "knives": vocab.NOUN, "leaves": vocab.NOUN,
	"selves": vocab.NOUN,
	"better": vocab.ADJ, "best": vocab.ADJ, "worse": vocab.ADJ, "worst": vocab.ADJ,
}
