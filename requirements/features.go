// Package requirements parses product-requirements documents into priority
// tiers of features with EARS-form acceptance criteria.
package requirements

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/ralphex/document"
)

// Tier identifies a requirements priority tier.
type Tier string

// Priority tiers in the requirements document dialect.
const (
	TierMust   Tier = "must"
	TierShould Tier = "should"
	TierCould  Tier = "could"
)

// tierHeaders maps each tier to its accepted section header names, tried in
// order. Both the long and short forms appear in the wild.
var tierHeaders = map[Tier][]string{
	TierMust:   {"Must Have Features", "Must Have"},
	TierShould: {"Should Have Features", "Should Have"},
	TierCould:  {"Could Have Features", "Could Have"},
}

var (
	// featureHeaderRe matches a feature block header: #### Feature N: Name
	featureHeaderRe = regexp.MustCompile(`(?m)^####\s*Feature\s*(\d+)\s*:\s*(.*)$`)

	// userStoryLabelRe locates the bolded User Story label.
	userStoryLabelRe = regexp.MustCompile(`\*\*User Story:?\*\*:?\s*`)

	// storyBoundaryRe ends the user story at the next bolded label or list item.
	storyBoundaryRe = regexp.MustCompile(`(?m)^\s*(\*\*|-\s|\d+\.\s)`)

	// criterionRe matches a top-level checklist item; the checkbox state is
	// captured but discarded by the extractor.
	criterionRe = regexp.MustCompile(`(?m)^-\s*\[([ xX])\]\s*(.+)$`)
)

// Feature is one numbered feature block inside a priority tier.
type Feature struct {
	// Number is the feature ordinal from the header.
	Number int

	// Name is the header text after the colon.
	Name string

	// UserStory is the text following the bolded "User Story:" label, empty
	// when absent.
	UserStory string

	// Criteria holds the raw EARS-form acceptance criterion strings in
	// document order. Both checked and unchecked items are included.
	Criteria []string
}

// TierBody returns the verbatim body of a priority tier section, trying each
// accepted header name in order. Returns "" when the tier is absent.
func TierBody(content string, tier Tier) string {
	for _, header := range tierHeaders[tier] {
		if body := document.ExtractSection(content, header, document.LevelMinor); body != "" {
			return body
		}
	}
	return ""
}

// ParseTiers extracts features for every priority tier present in the
// requirements document. Absent tiers map to nil slices.
func ParseTiers(content string) map[Tier][]Feature {
	tiers := make(map[Tier][]Feature)
	for _, tier := range []Tier{TierMust, TierShould, TierCould} {
		if body := TierBody(content, tier); body != "" {
			tiers[tier] = ParseFeatures(body)
		}
	}
	return tiers
}

// ParseFeatures parses the feature blocks inside one priority tier body.
// Each block runs from its fourth-level header to the next such header or
// end of tier.
func ParseFeatures(tierBody string) []Feature {
	var features []Feature

	headers := featureHeaderRe.FindAllStringSubmatchIndex(tierBody, -1)
	for i, h := range headers {
		num, err := strconv.Atoi(tierBody[h[2]:h[3]])
		if err != nil {
			continue
		}

		bodyStart := h[1]
		bodyEnd := len(tierBody)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := tierBody[bodyStart:bodyEnd]

		features = append(features, Feature{
			Number:    num,
			Name:      strings.TrimSpace(tierBody[h[4]:h[5]]),
			UserStory: extractUserStory(body),
			Criteria:  extractCriteria(body),
		})
	}

	return features
}

// extractUserStory captures the text after the bolded User Story label, up
// to the next bolded label or list item.
func extractUserStory(featureBody string) string {
	loc := userStoryLabelRe.FindStringIndex(featureBody)
	if loc == nil {
		return ""
	}

	story := featureBody[loc[1]:]
	if boundary := storyBoundaryRe.FindStringIndex(story); boundary != nil {
		story = story[:boundary[0]]
	}

	return strings.TrimSpace(story)
}

// extractCriteria collects every top-level checklist item's text verbatim.
// The checkbox state is discarded: checked and unchecked criteria are
// equally part of the feature.
func extractCriteria(featureBody string) []string {
	var criteria []string
	for _, m := range criterionRe.FindAllStringSubmatch(featureBody, -1) {
		criteria = append(criteria, strings.TrimSpace(m[2]))
	}
	return criteria
}
