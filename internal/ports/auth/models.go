package auth

// Claims representa la identidad de la clínica extraída del token.
type Claims struct {
	ClinicID   string
	ClinicName string
	Email      string
}
