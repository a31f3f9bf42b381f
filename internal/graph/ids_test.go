package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain text file", filename: "stoicism.txt", want: "stoicism"},
		{name: "nested path", filename: "a/b/epicurus.notes.txt", want: "epicurus"},
		{name: "no extension", filename: "plato", want: "plato"},
		{name: "dotfile", filename: ".profile", want: DefaultImportID},
		{name: "empty", filename: "", want: DefaultImportID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportName(tt.filename))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Philosophy", Label("Philosophy"))
	assert.Equal(t, "123456789012", Label("123456789012"))
	assert.Equal(t, "Marcus Aur...", Label("Marcus Aurelius"))
}

func TestRect_Clamp(t *testing.T) {
	r := Rect{MinX: 30, MaxX: 770, MinY: 30, MaxY: 570}
	assert.Equal(t, Vec2{X: 30, Y: 570}, r.Clamp(Vec2{X: -5, Y: 900}))
	assert.Equal(t, Vec2{X: 100, Y: 100}, r.Clamp(Vec2{X: 100, Y: 100}))
}
