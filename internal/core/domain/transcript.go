package domain

import "strings"

// NormalizeInput terminates stdin with a newline if it is not already terminated.
func NormalizeInput(stdin string) string {
	if strings.HasSuffix(stdin, "\n") {
		return stdin
	}
	return stdin + "\n"
}

// ReconstructTranscript re-inserts the user's input into program output.
//
// A program that reads stdin never echoes what was typed, so the transcript
// would show the prompt followed directly by the reply. The trimmed input is
// placed on its own line right after the first line containing marker. An
// empty marker, or output without the marker, leaves raw unchanged.
func ReconstructTranscript(raw, marker, input string) string {
	if marker == "" {
		return raw
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:i+1]...)
		out = append(out, strings.TrimSpace(input))
		out = append(out, lines[i+1:]...)
		return strings.Join(out, "\n")
	}
	return raw
}
