package dictionary

import "pronouncer/internal/domain/word"

// maxPerMeaning caps how many definitions are kept for each part of speech
const maxPerMeaning = 2

// Entry is one element of the dictionary API response array
type Entry struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

// Phonetic pairs a textual pronunciation with an optional recording
type Phonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// Meaning groups definitions under one part of speech
type Meaning struct {
	PartOfSpeech string            `json:"partOfSpeech"`
	Definitions  []DefinitionEntry `json:"definitions"`
}

// DefinitionEntry is a single definition inside a meaning
type DefinitionEntry struct {
	Definition string `json:"definition"`
}

// Result converts the entry into the normalized lookup result.
// requested is the term as the user typed it and is used when the entry has no word.
func (e Entry) Result(requested string) *word.Result {
	phonetic, audio := e.pronunciation()
	if phonetic == "" {
		phonetic = word.NoPhonetic
	}

	w := e.Word
	if w == "" {
		w = requested
	}

	return &word.Result{
		Word:        w,
		Phonetic:    phonetic,
		AudioURL:    audio,
		Definitions: e.definitions(),
	}
}

// pronunciation picks the phonetic text and the first recording.
// The first phonetics element carrying audio wins, and its text replaces any
// earlier fallback text.
func (e Entry) pronunciation() (phonetic, audio string) {
	phonetic = e.Phonetic

	for _, p := range e.Phonetics {
		if p.Text != "" && phonetic == "" {
			phonetic = p.Text
		}
		if p.Audio != "" {
			audio = p.Audio
			if p.Text != "" {
				phonetic = p.Text
			}
			break
		}
	}

	return phonetic, audio
}

func (e Entry) definitions() []word.Definition {
	definitions := make([]word.Definition, 0)

	for _, meaning := range e.Meanings {
		for i, d := range meaning.Definitions {
			if i == maxPerMeaning {
				break
			}
			definitions = append(definitions, word.Definition{
				PartOfSpeech: meaning.PartOfSpeech,
				Definition:   d.Definition,
			})
		}
	}

	return definitions
}
