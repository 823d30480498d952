// Copyright 2025 ScyllaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config builds generator trees from a JSON document:
//
//	{
//	  "seed": "42",
//	  "generators": {
//	    "damage": {
//	      "type": "clamp", "min": 0, "max": 100,
//	      "source": {"type": "normal-marsaglia", "mean": 50, "deviation": 15},
//	      "filters": [{"type": "ascendant", "length": 3}],
//	      "attempts": 5
//	    }
//	  }
//	}
//
// Every node names its kind in "type". The remaining keys are the kind's
// parameters, except "source" (the node drawn from), "filters" and
// "attempts". Distributions without a source draw from a xoroshiro128+
// engine seeded from the document seed and the node path, so the same
// document always yields the same sequences.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/scylladb/entropy/pkg/utils"
)

const (
	KindUniform  = "uniform"
	KindPlatform = "platform"
	KindAdd      = "add"
	KindMultiply = "multiply"
	KindClamp    = "clamp"
	KindRound    = "round"
	KindFiltered = "filtered"
)

type (
	Document struct {
		Generators map[string]map[string]any `json:"generators"`
		Seed       string                    `json:"seed"`
	}

	node struct {
		Params   map[string]any   `mapstructure:",remain"`
		Source   map[string]any   `mapstructure:"source"`
		Type     string           `mapstructure:"type"`
		Filters  []map[string]any `mapstructure:"filters"`
		Attempts int              `mapstructure:"attempts"`
	}

	FilterSpec struct {
		Type           string  `mapstructure:"type"`
		Length         int     `mapstructure:"length"`
		Reference      float64 `mapstructure:"reference"`
		Distance       float64 `mapstructure:"distance"`
		Threshold      float64 `mapstructure:"threshold"`
		Min            float64 `mapstructure:"min"`
		Max            float64 `mapstructure:"max"`
		Mean           float64 `mapstructure:"mean"`
		Deviation      float64 `mapstructure:"deviation"`
		AllowedRepeats int     `mapstructure:"allowed_repeats"`
		Pattern        int     `mapstructure:"pattern"`
		Repetitions    int     `mapstructure:"repetitions"`
	}

	UniformParams struct {
		Engine string  `mapstructure:"engine"`
		Seed   string  `mapstructure:"seed"`
		Min    float64 `mapstructure:"min"`
		Max    float64 `mapstructure:"max"`
	}

	RangeParams struct {
		Min float64 `mapstructure:"min"`
		Max float64 `mapstructure:"max"`
	}

	ValueParams struct {
		Value float64 `mapstructure:"value"`
	}
)

// Parse decodes a document. Numbers are kept as json.Number so that large
// integer seeds survive decoding.
func Parse(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse generators JSON")
	}
	if len(doc.Generators) == 0 {
		return nil, errors.New("no generators configured")
	}
	return &doc, nil
}

// Load reads a document from a file, or parses value itself when it is not
// a path. Inline JSON may use single quotes.
func Load(value string) (*Document, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("empty generators configuration")
	}

	if utils.IsFile(value) {
		data, err := os.ReadFile(value)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read generators JSON file %q", value)
		}
		return Parse(data)
	}

	return Parse(utils.UnsafeBytes(utils.SingleToDoubleQuoteReplacer.Replace(value)))
}

func decodeNode(raw map[string]any) (node, error) {
	var n node
	if err := decode(raw, &n, false); err != nil {
		return node{}, err
	}
	if n.Type == "" {
		return node{}, errors.New("missing type")
	}
	n.Type = strings.ToLower(strings.TrimSpace(n.Type))
	return n, nil
}

// decode fills out from raw. Unless lenient, keys out does not know about
// are reported so that typos do not silently fall back to defaults.
func decode(raw, out any, lenient bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      !lenient,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	return decoder.Decode(raw)
}
