package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DeskwrapError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *DeskwrapError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *DeskwrapError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Scaffolding errors

func TemplateNotFound(name string) *DeskwrapError {
	return New(CategoryTemplate, SeverityFatal, "project template not found").
		WithContext("template", name)
}

func ScaffoldFailed(step string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryScaffold, SeverityFatal, "project scaffolding failed").
		WithContext("step", step)
}

func NotAProject(dir string) *DeskwrapError {
	return New(CategoryDetect, SeverityFatal, "directory does not contain a recognizable web project").
		WithContext("dir", dir)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func TransformFailed(document string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryTransform, SeverityError, "document transform failed").
		WithContext("document", document)
}

func ManifestError(path string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "route manifest unreadable").
		WithContext("path", path)
}

func WorkspaceError(operation string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Watch mode errors

func WatchFailed(step string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "watch loop failed").
		WithContext("step", step)
}

// Internal errors

func InternalError(message string, cause error) *DeskwrapError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
