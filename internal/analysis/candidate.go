package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// Candidate is the service verdict for one résumé.
type Candidate struct {
	Name     string  `json:"candidate_name"`
	Filename string  `json:"filename,omitempty"`
	Score    int     `json:"score"`
	Summary  string  `json:"summary"`
	Details  Details `json:"details"`
}

// Clone returns a copy that shares no memory with c.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}

	out := *c
	if c.Details != nil {
		out.Details = make(Details, len(c.Details))
		for i, d := range c.Details {
			out.Details[i] = Detail{Key: d.Key, Value: bytes.Clone(d.Value)}
		}
	}
	return &out
}

// Detail is one evaluation criterion. Value is the raw JSON value.
type Detail struct {
	Key   string
	Value json.RawMessage
}

// Details keeps criteria in the order the service sent them.
type Details []Detail

// Get returns the value stored under key.
func (d Details) Get(key string) (json.RawMessage, bool) {
	for _, item := range d {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys lists criterion names in insertion order.
func (d Details) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, item := range d {
		keys = append(keys, item.Key)
	}
	return keys
}

func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("details must be an object")
	}

	out := Details{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected details key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("details %q: %w", key, err)
		}

		out = out.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

func (d Details) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, item := range d {
		if i > 0 {
			b.WriteByte(',')
		}

		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')

		if len(item.Value) == 0 {
			b.WriteString("null")
			continue
		}
		b.Write(item.Value)
	}
	b.WriteByte('}')

	return b.Bytes(), nil
}

// set keeps the position of the first occurrence and the last value, like a
// JSON object parsed into a map that remembers insertion order.
func (d Details) set(key string, value json.RawMessage) Details {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, Detail{Key: key, Value: value})
}

// wireCandidate is the minimum shape every item of the response must have.
type wireCandidate struct {
	CandidateName *string        `mapstructure:"candidate_name" validate:"required"`
	Filename      string         `mapstructure:"filename"`
	Score         *float64       `mapstructure:"score" validate:"required"`
	Summary       *string        `mapstructure:"summary" validate:"required"`
	Details       map[string]any `mapstructure:"details" validate:"required"`
}

// decodeCandidates parses the service payload: a JSON array of candidate
// objects. Anything else is an error.
func decodeCandidates(data []byte) ([]*Candidate, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("response is not a JSON array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]*Candidate, 0, len(items))
	for i, raw := range items {
		candidate, err := decodeCandidate(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func decodeCandidate(raw json.RawMessage) (*Candidate, error) {
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil || item == nil {
		return nil, errors.New("not an object")
	}

	var wire wireCandidate
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &wire,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(item); err != nil {
		return nil, err
	}

	if err := validate.Struct(wire); err != nil {
		return nil, err
	}

	if math.IsInf(*wire.Score, 0) || math.IsNaN(*wire.Score) {
		return nil, errors.New("score is not a finite number")
	}
	if *wire.Score < math.MinInt32 || *wire.Score > math.MaxInt32 {
		return nil, fmt.Errorf("score %g is out of range", *wire.Score)
	}

	var ordered struct {
		Details Details `json:"details"`
	}
	if err := json.Unmarshal(raw, &ordered); err != nil {
		return nil, err
	}

	return &Candidate{
		Name:     *wire.CandidateName,
		Filename: wire.Filename,
		Score:    int(math.Trunc(*wire.Score)),
		Summary:  *wire.Summary,
		Details:  ordered.Details,
	}, nil
}
