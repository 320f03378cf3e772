package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPath is the preferences file location, relative to the working directory.
const DefaultPath = "comedian_preferences.json"

const (
	keyVoiceID      = "voice_id"
	keyComedyStyle  = "comedy_style"
	keyOutputFormat = "output_format"
	keyCleanScript  = "clean_script"
)

// Preferences are the user's remembered form selections.
type Preferences struct {
	VoiceID      string
	ComedyStyle  string
	OutputFormat string
	CleanScript  bool

	// extra holds keys this version does not know about so a save writes them back.
	extra map[string]json.RawMessage
}

// Defaults returns the values used for any key missing from the file.
func Defaults() Preferences {
	return Preferences{
		VoiceID:      "default",
		ComedyStyle:  "observational",
		OutputFormat: "mp3_44100_128",
		CleanScript:  true,
	}
}

// MarshalJSON writes the known keys over any preserved unknown ones.
func (p Preferences) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.extra)+4)
	for k, v := range p.extra {
		out[k] = v
	}
	out[keyVoiceID] = p.VoiceID
	out[keyComedyStyle] = p.ComedyStyle
	out[keyOutputFormat] = p.OutputFormat
	out[keyCleanScript] = p.CleanScript
	return json.Marshal(out)
}

// UnmarshalJSON overlays the stored values onto p. Keys absent from data keep
// whatever p already held, which is how defaults survive a partial file. A
// known key stored as null is treated as absent and keeps its default.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		var err error
		switch k {
		case keyVoiceID:
			err = json.Unmarshal(v, &p.VoiceID)
		case keyComedyStyle:
			err = json.Unmarshal(v, &p.ComedyStyle)
		case keyOutputFormat:
			err = json.Unmarshal(v, &p.OutputFormat)
		case keyCleanScript:
			err = json.Unmarshal(v, &p.CleanScript)
		default:
			if p.extra == nil {
				p.extra = make(map[string]json.RawMessage)
			}
			p.extra[k] = v
		}
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

// Store loads and saves preferences at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored preferences with defaults applied for missing keys.
// A missing file yields pure defaults and is not created.
func (s *Store) Load() (Preferences, error) {
	p := Defaults()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read preferences %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	return p, nil
}

// Save writes p, truncating any previous file.
func (s *Store) Save(p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write preferences %s: %w", s.path, err)
	}
	return nil
}
