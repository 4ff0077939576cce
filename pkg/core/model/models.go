package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Activity is a signup-able offering with a capacity and roster
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns capacity minus current roster size.
// The result is not clamped and goes negative when the roster is over capacity.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Catalog is the full set of activities returned by the list endpoint.
// Names holds the activity names in the order the backend sent them.
type Catalog struct {
	Names      []string
	Activities map[string]Activity
}

// NewCatalog builds a catalog from activities, keeping their order
func NewCatalog(activities ...Activity) *Catalog {
	c := &Catalog{Activities: make(map[string]Activity, len(activities))}
	for _, a := range activities {
		c.add(a)
	}
	return c
}

func (c *Catalog) add(a Activity) {
	if _, exists := c.Activities[a.Name]; !exists {
		c.Names = append(c.Names, a.Name)
	}
	c.Activities[a.Name] = a
}

// Ordered returns the activities in backend order
func (c *Catalog) Ordered() []Activity {
	if c == nil {
		return nil
	}
	out := make([]Activity, 0, len(c.Names))
	for _, name := range c.Names {
		out = append(out, c.Activities[name])
	}
	return out
}

// Get looks up an activity by name
func (c *Catalog) Get(name string) (Activity, bool) {
	if c == nil {
		return Activity{}, false
	}
	a, ok := c.Activities[name]
	return a, ok
}

// Len returns the number of activities
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Names)
}

// UnmarshalJSON decodes a JSON object of name -> activity while keeping key order
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog must be a JSON object")
	}

	c.Names = nil
	c.Activities = make(map[string]Activity)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read activity name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected catalog key %v", tok)
		}

		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("failed to decode activity %q: %w", name, err)
		}
		a.Name = name
		if a.Participants == nil {
			a.Participants = []string{}
		}
		c.add(a)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}

	return nil
}

// MarshalJSON encodes the catalog as a JSON object in backend order
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Activities[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LocalPart returns the substring of an email address preceding the first @
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
