// Package classify guesses which catalog domain a candidate card name belongs
// to using keyword matching.
package classify

import (
	"strings"

	"cardlens/internal/model"
)

// domainKeywords maps each domain to the case-insensitive substrings that
// select it. Entries are checked in the order of domainPriority; the first
// domain with a matching keyword wins, so a name containing both a basketball
// and a marvel keyword classifies as basketball.
var domainKeywords = map[model.GameDomain][]string{
	model.DomainPokemon: {
		"pikachu", "charizard", "pokemon",
	},
	model.DomainYuGiOh: {
		"blue-eyes", "dark magician", "exodia",
	},
	model.DomainBaseball: {
		"babe ruth", "mickey mantle", "mike trout",
		"baseball", "mlb", "topps", "bowman",
	},
	model.DomainBasketball: {
		"michael jordan", "lebron james", "kobe bryant",
		"basketball", "nba", "panini", "upper deck",
	},
	model.DomainMarvel: {
		"spider-man", "iron man", "captain america",
		"thor", "hulk", "marvel", "avengers",
	},
}

// domainPriority is the fixed tie-break order. Do not reorder without flagging
// the behavior change: existing scans depend on it.
var domainPriority = []model.GameDomain{
	model.DomainPokemon,
	model.DomainYuGiOh,
	model.DomainBaseball,
	model.DomainBasketball,
	model.DomainMarvel,
}

// Classify returns the catalog domain guessed for a candidate name. Names
// matching no keyword default to the MTG domain. The function is pure: the
// same name always yields the same domain.
func Classify(name string) model.GameDomain {
	lowered := strings.ToLower(name)

	for _, domain := range domainPriority {
		for _, keyword := range domainKeywords[domain] {
			if strings.Contains(lowered, keyword) {
				return domain
			}
		}
	}

	return model.DomainMTG
}
