package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry(name string) Entry {
	return Entry{
		Name:          name,
		Kind:          KindTransform,
		Icon:          IconFilter,
		Category:      CategoryTransform,
		Inputs:        []Handle{{ID: "in", Label: "Input"}},
		Outputs:       []Handle{{ID: "out", Label: "Output"}},
		DefaultConfig: map[string]interface{}{"name": "New " + name},
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr error
	}{
		{name: "valid entry", mutate: func(e *Entry) {}},
		{name: "missing name", mutate: func(e *Entry) { e.Name = "" }, wantErr: ErrInvalidEntryName},
		{name: "unknown category", mutate: func(e *Entry) { e.Category = "Sink" }, wantErr: ErrUnknownCategory},
		{name: "unknown icon", mutate: func(e *Entry) { e.Icon = "rocket" }, wantErr: ErrUnknownIcon},
		{name: "unknown kind", mutate: func(e *Entry) { e.Kind = "Window" }, wantErr: ErrUnknownKind},
		{
			name:    "duplicate input handle",
			mutate:  func(e *Entry) { e.Inputs = []Handle{{ID: "in"}, {ID: "in"}} },
			wantErr: ErrDuplicateHandle,
		},
		{
			name:    "empty output handle id",
			mutate:  func(e *Entry) { e.Outputs = []Handle{{Label: "Output"}} },
			wantErr: ErrInvalidHandleID,
		},
		{
			name:    "default config without name",
			mutate:  func(e *Entry) { e.DefaultConfig = map[string]interface{}{"condition": ""} },
			wantErr: ErrMissingName,
		},
		{
			name: "same id on both roles is allowed",
			mutate: func(e *Entry) {
				e.Inputs = []Handle{{ID: "io"}}
				e.Outputs = []Handle{{ID: "io"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry("Filter")
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		_, err := New()
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := New(validEntry("Filter"), validEntry("Filter"))
		assert.ErrorIs(t, err, ErrDuplicateEntry)
	})

	t.Run("entries are detached from the caller", func(t *testing.T) {
		e := validEntry("Filter")
		c, err := New(e)
		require.NoError(t, err)

		e.Inputs[0].ID = "changed"
		e.DefaultConfig["name"] = "changed"

		got, ok := c.Lookup("Filter")
		require.True(t, ok)
		assert.Equal(t, "in", got.Inputs[0].ID)
		assert.Equal(t, "New Filter", got.DefaultConfig["name"])
	})

	t.Run("must new panics on invalid input", func(t *testing.T) {
		assert.Panics(t, func() { MustNew(Entry{}) })
	})
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	e, ok := c.Lookup("Join")
	require.True(t, ok)
	assert.Equal(t, CategoryTransform, e.Category)
	assert.Equal(t, []Handle{{ID: "in1", Label: "Input 1"}, {ID: "in2", Label: "Input 2"}}, e.Inputs)
	assert.Equal(t, 1, e.HandleIndex(RoleInput, "in2"))
	assert.Equal(t, -1, e.HandleIndex(RoleOutput, "in2"))

	// Mutating a returned entry never leaks into the catalog.
	e.DefaultConfig["joinType"] = "LEFT"
	again, _ := c.Lookup("Join")
	assert.Equal(t, "INNER", again.DefaultConfig["joinType"])

	_, ok = c.Lookup("Teleporter")
	assert.False(t, ok)
}

func TestCatalog_HandleSlot(t *testing.T) {
	c := Default()

	idx, count, ok := c.HandleSlot("Join", RoleInput, "in2")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, count)

	_, count, ok = c.HandleSlot("Database", RoleInput, "in")
	assert.False(t, ok)
	assert.Equal(t, 0, count)

	_, _, ok = c.HandleSlot("Teleporter", RoleOutput, "out")
	assert.False(t, ok)

	assert.True(t, c.HasHandle("Database", RoleOutput, "out"))
	assert.False(t, c.HasHandle("Database", RoleInput, "out"))

	handles := c.Handles("Join", RoleInput)
	assert.Equal(t, []Handle{{ID: "in1", Label: "Input 1"}, {ID: "in2", Label: "Input 2"}}, handles)
	handles[0].ID = "mutated"
	assert.True(t, c.HasHandle("Join", RoleInput, "in1"))
	assert.Nil(t, c.Handles("Teleporter", RoleInput))
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 17, c.Len())
	assert.Equal(t, "Database", c.Names()[0])
	assert.Equal(t, "IP Inversion", c.Names()[c.Len()-1])

	for _, e := range c.Entries() {
		assert.NoError(t, e.Validate(), e.Name)
		assert.NotEqual(t, "box", e.Icon.Glyph(), e.Name)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := Default()

	got := c.Search("  INVERSION ")
	names := make([]string, 0, len(got))
	for _, e := range got {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"2D/3D Gravity Inversion",
		"2D/3D Conductivity Joint Inversion",
		"Resistivity Inversion",
		"IP Inversion",
	}, names)

	// Descriptions are searched too.
	got = c.Search("rest apis")
	require.Len(t, got, 1)
	assert.Equal(t, "API Source", got[0].Name)

	assert.Len(t, c.Search(""), c.Len())
	assert.Empty(t, c.Search("quantum"))
}

func TestCatalog_ByCategory(t *testing.T) {
	groups := Default().ByCategory()
	require.Len(t, groups, 4)

	counts := map[Category]int{}
	for _, g := range groups {
		counts[g.Category] = len(g.Entries)
	}
	assert.Equal(t, map[Category]int{
		CategorySource:     3,
		CategoryTransform:  5,
		CategoryAI:         5,
		CategoryGeoscience: 4,
	}, counts)
	assert.Equal(t, CategorySource, groups[0].Category)

	// Empty groups are omitted.
	assert.Len(t, Grouped(Default().Search("ai ")), 1)
}

func TestStyles(t *testing.T) {
	assert.Equal(t, "border-l-green-500", CategorySource.Style().Border)
	assert.Equal(t, "text-purple-500", CategoryGeoscience.Style().Icon)
	assert.Equal(t, Style{Border: "border-l-gray-500", Icon: "text-gray-500"}, Category("Other").Style())

	assert.Equal(t, "database", IconSource.Glyph())
	assert.Equal(t, "box", Icon("unknown").Glyph())
	assert.False(t, Icon("unknown").Valid())
}

func TestRole(t *testing.T) {
	assert.Equal(t, RoleOutput, RoleInput.Opposite())
	assert.Equal(t, RoleInput, RoleOutput.Opposite())
	assert.True(t, RoleInput.Valid())
	assert.False(t, Role("bidirectional").Valid())
}

func TestCloneConfig(t *testing.T) {
	src := map[string]interface{}{
		"name":   "x",
		"nested": map[string]interface{}{"k": "v"},
		"list":   []interface{}{"a", map[string]interface{}{"b": 1}},
	}
	dst := CloneConfig(src)
	assert.Equal(t, map[string]interface{}{
		"name":   "x",
		"nested": map[string]interface{}{"k": "v"},
		"list":   []interface{}{"a", map[string]interface{}{"b": float64(1)}},
	}, dst)

	dst["nested"].(map[string]interface{})["k"] = "changed"
	dst["list"].([]interface{})[1].(map[string]interface{})["b"] = 2
	assert.Equal(t, "v", src["nested"].(map[string]interface{})["k"])
	assert.Equal(t, 1, src["list"].([]interface{})[1].(map[string]interface{})["b"])

	assert.Nil(t, CloneConfig(nil))
}

func TestCloneConfig_Numbers(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{name: "int", in: 10, want: float64(10)},
		{name: "int64", in: int64(-3), want: float64(-3)},
		{name: "uint8", in: uint8(7), want: float64(7)},
		{name: "float32", in: float32(0.5), want: float64(0.5)},
		{name: "float64", in: 2.25, want: 2.25},
		{name: "bool", in: true, want: true},
		{name: "strings", in: []string{"a", "b"}, want: []interface{}{"a", "b"}},
		{name: "nested", in: []interface{}{map[string]interface{}{"n": 3}}, want: []interface{}{map[string]interface{}{"n": float64(3)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CloneConfig(map[string]interface{}{"v": tt.in})
			assert.Equal(t, tt.want, got["v"])
		})
	}
}

func TestLoadYAML(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		src := `
components:
  - name: Database
    kind: Source
    category: Source
    icon: source
    outputs:
      - {id: out, label: Output}
    defaultConfig:
      name: New Data Source
  - name: Filter
    category: Transform
    icon: filter
    inputs:
      - {id: in, label: Input}
    outputs:
      - {id: out, label: Output}
    defaultConfig:
      name: New Filter
      options:
        caseSensitive: true
`
		c, err := LoadYAML(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, []string{"Database", "Filter"}, c.Names())

		f, ok := c.Lookup("Filter")
		require.True(t, ok)
		assert.Equal(t, map[string]interface{}{"caseSensitive": true}, f.DefaultConfig["options"])
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("components:\n  - name: X\n    colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("invalid entry", func(t *testing.T) {
		src := "components:\n  - name: X\n    category: Sink\n    icon: source\n    defaultConfig: {name: X}\n"
		_, err := LoadYAML(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("load without path returns built-in catalog", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Same(t, Default(), c)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile("/nonexistent/catalog.yaml")
		assert.Error(t, err)
	})
}
