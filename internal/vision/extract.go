package vision

import (
	"regexp"
	"strings"

	"cardlens/internal/service"
)

// maxCandidates caps how many candidate names one scan produces.
const maxCandidates = 5

var (
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
	allCapsRe    = regexp.MustCompile(`^[A-Z\s]+$`)
	// titleShapeRe is the accepted name shape: one title-case word, or a run
	// of up to three of them.
	titleShapeRe = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+){0,2}$`)
)

// ExtractCandidates filters raw OCR output into a short list of plausible card
// names. The input follows the vision service convention: the first annotation
// is the full concatenated text, which is split into lines and filtered in
// detection order. At most five candidates are returned.
//
// The filter is deliberately precision-biased and must stay byte-compatible
// with existing scans: changing it changes which cards users see.
func ExtractCandidates(textAnnotations []string) []string {
	if len(textAnnotations) == 0 {
		return nil
	}

	var candidates []string
	for _, line := range strings.Split(textAnnotations[0], "\n") {
		line = strings.TrimSpace(line)

		if len(line) < 3 || len(line) > 50 {
			continue
		}
		if digitsOnlyRe.MatchString(line) {
			continue
		}
		// Short all-caps fragments are usually set codes or stat boxes.
		if allCapsRe.MatchString(line) && len(line) < 10 {
			continue
		}
		if !titleShapeRe.MatchString(line) {
			continue
		}

		candidates = append(candidates, line)
		if len(candidates) == maxCandidates {
			break
		}
	}

	return candidates
}

// LikelyCardName reports whether text has the shape of a printed card name: a
// title-case word or a space-separated run of title-case words.
func LikelyCardName(text string) bool {
	if len(text) < 3 || len(text) > 50 {
		return false
	}
	return titleShapeRe.MatchString(text)
}

// BestCandidate picks the single most plausible card name from a web-detection
// result: the first web entity scoring above 0.7 that looks like a card name,
// falling back to the first OCR line that does.
func BestCandidate(result *service.RecognitionResult) string {
	if result == nil {
		return ""
	}

	for _, entity := range result.WebEntities {
		if entity.Score > 0.7 && LikelyCardName(entity.Description) {
			return entity.Description
		}
	}

	if len(result.TextAnnotations) > 0 {
		for _, line := range strings.Split(result.TextAnnotations[0], "\n") {
			line = strings.TrimSpace(line)
			if LikelyCardName(line) {
				return line
			}
		}
	}

	return ""
}

// CardLikeObjects filters localized objects down to shapes that could be
// physical cards.
func CardLikeObjects(objects []service.LocalizedObject) []service.LocalizedObject {
	var cards []service.LocalizedObject
	for _, obj := range objects {
		if obj.Name == "Rectangle" || obj.Name == "Card" {
			cards = append(cards, obj)
		}
	}
	return cards
}
