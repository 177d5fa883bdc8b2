package word

// NoPhonetic is shown when the dictionary has no phonetic spelling for a word
const NoPhonetic = "(no phonetic available)"

// Definition is a single meaning of a word tagged with its part of speech
type Definition struct {
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
}

// Result is the normalized outcome of a dictionary lookup
type Result struct {
	Word        string       `json:"word"`
	Phonetic    string       `json:"phonetic"`
	AudioURL    string       `json:"audio_url,omitempty"`
	Definitions []Definition `json:"definitions"`
}

// HasAudio reports whether the dictionary returned a pronunciation recording
func (r *Result) HasAudio() bool {
	return r != nil && r.AudioURL != ""
}

// Top returns at most n definitions in dictionary order
func (r *Result) Top(n int) []Definition {
	if r == nil || n <= 0 {
		return nil
	}
	if len(r.Definitions) <= n {
		return r.Definitions
	}
	return r.Definitions[:n]
}
