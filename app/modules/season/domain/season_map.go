package seasondomain

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrGroupNotFound       = errors.New("group not found in season map")
	ErrCompetitionNotFound = errors.New("competition not found in season map")
	ErrSeasonNotFound      = errors.New("season not found in season map")
)

// SeasonEntryOptions are the optional per-season overrides at index 4 of a season tuple.
type SeasonEntryOptions struct {
	RankProperties   map[string]string `yaml:"rank_properties,omitempty"`
	GroupDisplay     string            `yaml:"group_display,omitempty"`
	URLCategory      string            `yaml:"url_category,omitempty"`
	LeagueDisplay    string            `yaml:"league_display,omitempty"`
	PointSystem      string            `yaml:"point_system,omitempty"`
	CSSFiles         []string          `yaml:"css_files,omitempty"`
	TeamRenameMap    map[string]string `yaml:"team_rename_map,omitempty"`
	TiebreakOrder    []string          `yaml:"tiebreak_order,omitempty"`
	SeasonStartMonth int               `yaml:"season_start_month,omitempty"`
}

// SeasonEntry is one season of a competition, stored in the map as
// [teamCount, promotionCount, relegationCount, teams, options?].
type SeasonEntry struct {
	TeamCount       int
	PromotionCount  int
	RelegationCount int
	// Teams is ordered by the previous season's finish.
	Teams   []string
	Options SeasonEntryOptions
}

// UnmarshalYAML decodes the tuple form of a season entry.
func (e *SeasonEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("season entry at line %d: expected a sequence", node.Line)
	}
	if n := len(node.Content); n < 4 || n > 5 {
		return fmt.Errorf("season entry at line %d: expected 4 or 5 elements, got %d", node.Line, n)
	}

	var out SeasonEntry
	targets := []any{&out.TeamCount, &out.PromotionCount, &out.RelegationCount, &out.Teams}
	for i, target := range targets {
		if err := node.Content[i].Decode(target); err != nil {
			return fmt.Errorf("season entry at line %d, element %d: %w", node.Line, i, err)
		}
	}
	if len(node.Content) == 5 {
		if err := node.Content[4].Decode(&out.Options); err != nil {
			return fmt.Errorf("season entry at line %d, options: %w", node.Line, err)
		}
	}

	*e = out
	return nil
}

// CompetitionEntry is one competition within a group, e.g. a division.
type CompetitionEntry struct {
	LeagueDisplay    string                 `yaml:"league_display,omitempty"`
	CSSFiles         []string               `yaml:"css_files,omitempty"`
	PointSystem      string                 `yaml:"point_system,omitempty"`
	TeamRenameMap    map[string]string      `yaml:"team_rename_map,omitempty"`
	TiebreakOrder    []string               `yaml:"tiebreak_order,omitempty"`
	SeasonStartMonth int                    `yaml:"season_start_month,omitempty"`
	Seasons          map[string]SeasonEntry `yaml:"seasons"`
}

// GroupEntry is a top-level family of competitions.
type GroupEntry struct {
	DisplayName      string                      `yaml:"display_name,omitempty"`
	CSSFiles         []string                    `yaml:"css_files,omitempty"`
	SeasonStartMonth int                         `yaml:"season_start_month,omitempty"`
	Competitions     map[string]CompetitionEntry `yaml:"competitions"`
}

// SeasonMap is the whole season configuration keyed by group.
type SeasonMap map[string]GroupEntry

// ParseSeasonMap decodes a season map document. JSON documents are accepted.
func ParseSeasonMap(data []byte) (SeasonMap, error) {
	var m SeasonMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal season map: %w", err)
	}
	if m == nil {
		m = SeasonMap{}
	}
	return m, nil
}

// LoadSeasonMap reads and decodes the season map at path.
func LoadSeasonMap(path string) (SeasonMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read season map %q: %w", path, err)
	}
	return ParseSeasonMap(data)
}

// GroupKeys returns the group keys in sorted order.
func (m SeasonMap) GroupKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FindCompetition returns the key of the first group, in key order, that
// contains competitionKey.
func (m SeasonMap) FindCompetition(competitionKey string) (string, CompetitionEntry, error) {
	for _, groupKey := range m.GroupKeys() {
		if comp, ok := m[groupKey].Competitions[competitionKey]; ok {
			return groupKey, comp, nil
		}
	}
	return "", CompetitionEntry{}, fmt.Errorf("%w: %q", ErrCompetitionNotFound, competitionKey)
}

// Entry looks up a season tuple.
func (m SeasonMap) Entry(groupKey, competitionKey, season string) (GroupEntry, CompetitionEntry, SeasonEntry, error) {
	group, ok := m[groupKey]
	if !ok {
		return GroupEntry{}, CompetitionEntry{}, SeasonEntry{}, fmt.Errorf("%w: %q", ErrGroupNotFound, groupKey)
	}
	comp, ok := group.Competitions[competitionKey]
	if !ok {
		return group, CompetitionEntry{}, SeasonEntry{}, fmt.Errorf("%w: %q in group %q", ErrCompetitionNotFound, competitionKey, groupKey)
	}
	entry, ok := comp.Seasons[season]
	if !ok {
		return group, comp, SeasonEntry{}, fmt.Errorf("%w: %q of %s/%s", ErrSeasonNotFound, season, groupKey, competitionKey)
	}
	return group, comp, entry, nil
}

// SeasonKeys lists a competition's seasons in sorted order.
func (c CompetitionEntry) SeasonKeys() []string {
	keys := make([]string, 0, len(c.Seasons))
	for k := range c.Seasons {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
