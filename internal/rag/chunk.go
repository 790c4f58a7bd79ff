package rag

import "strings"

// ChunkText splits text into overlapping windows of roughly chunkSize
// characters. Paragraph boundaries ("\n\n") are preferred; oversized pieces
// fall back to sentence splits and finally to hard character splits. The
// trailing chunkOverlap characters of each window seed the next one.
func ChunkText(text string, chunkSize, chunkOverlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	const separator = "\n\n"

	var chunks []string
	current := ""
	for _, section := range strings.Split(text, separator) {
		if current != "" && len(current)+len(section) > chunkSize {
			chunks = append(chunks, strings.TrimSpace(current))
			overlapStart := max(0, len(current)-chunkOverlap)
			current = current[overlapStart:] + section
		} else {
			if current != "" {
				current += separator
			}
			current += section
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	var final []string
	for _, chunk := range chunks {
		if len(chunk) > chunkSize*3/2 {
			final = append(final, splitLongChunk(chunk, chunkSize, chunkOverlap)...)
		} else {
			final = append(final, chunk)
		}
	}
	return final
}

func splitLongChunk(text string, chunkSize, chunkOverlap int) []string {
	var sentences []string
	for _, delimiter := range []string{". ", ".\n", "! ", "? "} {
		if strings.Contains(text, delimiter) {
			for _, s := range strings.Split(text, delimiter) {
				if s != "" {
					sentences = append(sentences, s+strings.TrimSpace(delimiter))
				}
			}
			break
		}
	}

	if len(sentences) == 0 {
		return hardSplit(text, chunkSize, chunkOverlap)
	}

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if current != "" && len(current)+len(sentence) > chunkSize {
			chunks = append(chunks, strings.TrimSpace(current))
			overlapStart := max(0, len(current)-chunkOverlap)
			current = current[overlapStart:] + sentence
		} else {
			if current != "" {
				current += " "
			}
			current += sentence
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

func hardSplit(text string, chunkSize, chunkOverlap int) []string {
	step := chunkSize - chunkOverlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := min(start+chunkSize, len(text))
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
