package parsers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

var (
	// ErrUnsupportedFileType is returned for a match log whose extension has no parser.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
)

// Options carry the season settings that shape a parsed match log.
type Options struct {
	// Teams are pre-registered in every group, in order, before any row is read.
	Teams []string
	// DefaultGroup names the group for logs without a group column.
	DefaultGroup string
	PointSystem  standingsdomain.PointSystem
	// TeamRenameMap replaces team names as they are read.
	TeamRenameMap map[string]string
}

// Parser turns the raw bytes of a match log into a TeamMap.
type Parser interface {
	Parse(data []byte, opts Options) (*standingsdomain.TeamMap, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory creates the appropriate parser based on file extension
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx", ".xls":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// LoadTeamMap reads the match log at path with the parser its extension selects.
func LoadTeamMap(factory ParserFactory, path string, opts Options) (*standingsdomain.TeamMap, error) {
	parser, err := factory.GetParser(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match log %q: %w", path, err)
	}
	teams, err := parser.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse match log %q: %w", path, err)
	}
	return teams, nil
}
