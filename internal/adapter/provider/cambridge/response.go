package cambridge

// apiEntry is the response body of the Cambridge proxy API for one word.
type apiEntry struct {
	Word       string          `json:"word"`
	Definition []apiDefinition `json:"definition"`
}

// apiDefinition is a single sense with its part of speech.
// The API also carries example sentences; they are not used — rendered cards
// keep the Sentences sub-field blank for manual completion.
type apiDefinition struct {
	POS  string `json:"pos"`
	Text string `json:"text"`
}
