// Package media obtains subtitle text from outside sources: embedded tracks
// of a video file (ffprobe to list, ffmpeg to extract) and remote videos
// (yt-dlp, subtitles only).
package media
