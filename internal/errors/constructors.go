package errors

// Convenience constructors for the error kinds the pipeline can surface.

// Config errors

func ConfigNotFound(path string) *BankError {
	return New(CategoryConfig, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *BankError {
	return Wrap(cause, CategoryConfig, "invalid configuration file").
		WithContext("path", path)
}

// Problem directory errors

func MissingProblem(dir string) *BankError {
	return New(CategoryProblem, "problem directory contains neither problem.md nor problem.tex").
		WithContext("path", dir)
}

func AmbiguousFormat(dir string) *BankError {
	return New(CategoryProblem, "problem directory contains both problem.md and problem.tex").
		WithContext("path", dir)
}

func NonNumericDirectory(dir string) *BankError {
	return New(CategoryProblem, "problem directory name is not a number").
		WithContext("path", dir)
}

func DuplicateIdentifier(id, dir string) *BankError {
	return New(CategoryProblem, "duplicate problem identifier").
		WithContext("problem", id).
		WithContext("path", dir)
}

// Metadata errors

func MetadataInvalid(path string, cause error) *BankError {
	return Wrap(cause, CategoryMetadata, "invalid frontmatter").
		WithContext("path", path)
}

// Rendering errors

func ParseFailed(id string, cause error) *BankError {
	return Wrap(cause, CategoryParse, "problem body rejected by parser").
		WithContext("problem", id)
}

func TemplateField(cause error) *BankError {
	return Wrap(cause, CategoryTemplate, "template references an unsupported field")
}

func WriteFailed(path string, cause error) *BankError {
	return Wrap(cause, CategoryFileSystem, "failed to write output").
		WithContext("path", path)
}

// Git errors

func CloneFailed(url string, cause error) *BankError {
	return Wrap(cause, CategoryGit, "failed to clone bank repository").
		WithContext("path", url)
}
