package cnst

const (
	// LangEN is the English language code
	LangEN = "en"
	// LangZH is the Chinese language code
	LangZH = "zh"
	// LangDefault is the fallback language
	LangDefault = LangEN
)
