package web

import "github.com/mvdan/xurls"

type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

// FindURLs finds URLs with a scheme only: "cat.png" is a file name, not a URL.
func (u *URLFinder) FindURLs(str string) []string {
	return xurls.Strict.FindAllString(str, -1)
}
