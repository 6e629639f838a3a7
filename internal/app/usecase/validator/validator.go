package validator

import "strings"

const minPasswordLength = 6

func Email(email string) bool {
	at := strings.Index(email, "@")
	dot := strings.LastIndex(email, ".")

	return at > 0 && dot > at+1 && dot < len(email)-1
}

func Password(password string) bool {
	return len(password) >= minPasswordLength
}

func Credentials(email, password string) bool {
	return Email(email) && Password(password)
}
