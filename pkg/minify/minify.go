// Package minify provides the jsShrink collaborator, a JavaScript minifier.
package minify

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

const mediaTypeJS = "application/javascript"

// Func shrinks source code. It is the handle type provided for the
// jsShrink collaborator.
type Func func(src string) (string, error)

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaTypeJS, js.Minify)
	return m
}

// JS minifies JavaScript source
func JS(src string) (string, error) {
	out, err := minifier.String(mediaTypeJS, src)
	if err != nil {
		return "", fmt.Errorf("minify js: %w", err)
	}
	return out, nil
}

// Shrink returns JS as a Func
func Shrink() Func {
	return JS
}
