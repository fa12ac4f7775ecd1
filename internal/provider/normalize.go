package provider

const unknownField = "Unknown"

// Normalize folds a raw strategy result into the uniform Attempt shape.
// Missing optional fields get placeholders instead of failing; normalization
// itself never rejects a result.
func Normalize(att Attempt) Attempt {
	if att.Title == "" {
		att.Title = unknownField
	}
	if att.Author == "" {
		att.Author = unknownField
	}
	if att.Quality == "" {
		att.Quality = unknownField
	}
	if att.DurationSeconds < 0 {
		att.DurationSeconds = 0
	}
	if att.SizeBytes < 0 {
		att.SizeBytes = 0
	}
	return att
}

func failed(provider, errMsg string) Attempt {
	return Attempt{Provider: provider, Err: errMsg}
}
