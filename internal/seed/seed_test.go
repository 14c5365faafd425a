package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedDeterministic(t *testing.T) {
	assert.Equal(t, uint32(754077114), Seed("hello"))
	assert.Equal(t, Seed("hello"), Seed("hello"))
	assert.NotEqual(t, Seed("hello"), Seed("Hello"))
	assert.Equal(t, uint32(0xe3b0c442), Seed(""))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Mood
	}{
		{name: "warm", text: "I LOVE the sun", want: Warm},
		{name: "cold", text: "a dark and lonely storm", want: Cold},
		{name: "tie", text: "love and fear", want: Neutral},
		{name: "nothing", text: "the quick brown fox", want: Neutral},
		{name: "empty", text: "", want: Neutral},
		{name: "substring counts", text: "sunny sadness, sunshine", want: Neutral},
		{name: "repeats count once", text: "sad sad sad, joy and hope", want: Warm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestCustomLexicon(t *testing.T) {
	l := Lexicon{Warm: []string{"Ember"}, Cold: []string{"frost"}}
	assert.Equal(t, Warm, l.Classify("an EMBER glows"))
	assert.Equal(t, Cold, l.Classify("Frost"))
	assert.NoError(t, l.Validate())

	bad := Lexicon{Warm: []string{"Snow"}, Cold: []string{"snow"}}
	assert.Error(t, bad.Validate())
	assert.Error(t, Lexicon{Warm: []string{" "}}.Validate())
	assert.NoError(t, DefaultLexicon.Validate())
}

func TestMoodString(t *testing.T) {
	assert.Equal(t, "warm", Warm.String())
	assert.Equal(t, "cold", Cold.String())
	assert.Equal(t, "neutral", Neutral.String())
}
