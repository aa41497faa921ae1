package errors

var (
	ErrAdNotFound = &DomainError{
		Code:    "AD_NOT_FOUND",
		Message: "ad not found",
	}
	ErrCategoryNotFound = &DomainError{
		Code:    "CATEGORY_NOT_FOUND",
		Message: "category not found",
	}
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "you do not own this ad",
	}
	ErrAdArchived = &DomainError{
		Code:    "AD_ARCHIVED",
		Message: "ad is archived and can no longer change",
	}
	ErrCodeGenerationExhausted = &DomainError{
		Code:    "CODE_GENERATION_EXHAUSTED",
		Message: "could not generate a unique code",
	}
)
