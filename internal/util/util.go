package util

// Contains checks if a slice contains a specific string
func Contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// StrPtr returns a pointer to the given string
func StrPtr(s string) *string {
	return &s
}
