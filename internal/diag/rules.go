package diag

// Rule IDs are stable identifiers; message wording is not. Grouped per the
// taxonomy in the design's error-handling section.
const (
	// Structural.
	RuleConflictingImport      = "ConflictingImport"
	RuleInvalidImportNamespace = "InvalidImportNamespace"
	RuleImportCycle            = "ImportCycle"
	RuleDuplicateStruct        = "DuplicateStruct"
	RuleDuplicateName          = "DuplicateName"
	RuleConflictingCallName    = "ConflictingCallName"
	RuleUnknownName            = "UnknownName"

	// Type.
	RuleTypeMismatch       = "TypeMismatch"
	RuleNotCoercible       = "NotCoercible"
	RuleAmbiguousCall      = "AmbiguousCall"
	RuleUnknownFunction    = "UnknownFunction"
	RuleNoMatchingOverload = "NoMatchingOverload"
	RuleRequiresOptional   = "RequiresOptional"
	RuleNonOptionalSelect  = "NonOptionalInSelect"
	RuleInvalidRegex       = "InvalidRegex"

	// Flow/structure.
	RuleInvalidPlaceholderOption     = "InvalidPlaceholderOption"
	RuleConflictingPlaceholderOption = "ConflictingPlaceholderOption"
	RuleDeprecatedPlaceholderOption  = "DeprecatedPlaceholderOption"
	RuleNestedLiteralKind            = "NestedLiteralKind"
	RuleScatterNotArray              = "ScatterNotArray"
	RuleConditionNotBoolean          = "ConditionNotBoolean"
	RuleMissingRequiredInput         = "MissingRequiredInput"
	RuleOutputReferencesScatterVar   = "OutputReferencesScatterVar"

	// Usage warnings.
	RuleUnusedImport      = "UnusedImport"
	RuleUnusedInput       = "UnusedInput"
	RuleUnusedDeclaration = "UnusedDeclaration"
	RuleUnusedCall        = "UnusedCall"
	RuleDeprecatedObject  = "DeprecatedObject"

	// Version/document-level.
	RuleUnrecognizedVersion = "UnrecognizedVersion"
	RuleParseError          = "ParseError"
)
