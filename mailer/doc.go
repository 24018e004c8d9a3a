// Package mailer delivers account mail over SMTP.
package mailer
