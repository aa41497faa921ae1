package errors

var (
	ErrQRNotProvisioned = &DomainError{
		Code:    "QR_NOT_PROVISIONED",
		Message: "QR code is not part of any printed batch",
	}
	ErrQRAlreadyAssigned = &DomainError{
		Code:    "QR_ALREADY_ASSIGNED",
		Message: "QR code is already assigned to another ad",
	}
	ErrAdAlreadyHasQR = &DomainError{
		Code:    "AD_HAS_QR",
		Message: "this ad already has a QR sticker assigned",
	}
)
