package xenon

// Config collects the knobs that shape the emitted document. Emitters
// copy their Config at construction, so changing options afterwards
// never affects a live emitter.
type Config struct {
	AutopadComments          bool
	CDATAToCharacters        bool
	IndentString             string
	KeepElementNamesStack    bool
	LineSeparator            string
	NormalizeEmptyElements   bool
	PerformIndent            bool
	WriteDocumentDeclaration bool
}

func DefaultConfig() Config {
	return Config{
		AutopadComments:          true,
		IndentString:             "  ",
		KeepElementNamesStack:    true,
		LineSeparator:            "\n",
		NormalizeEmptyElements:   true,
		WriteDocumentDeclaration: true,
	}
}
