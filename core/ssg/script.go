package ssg

import (
	"fmt"
	"strings"
)

// ScriptMode is the loading attribute given to module scripts.
type ScriptMode string

const (
	ScriptSync       ScriptMode = "sync"
	ScriptAsync      ScriptMode = "async"
	ScriptDefer      ScriptMode = "defer"
	ScriptAsyncDefer ScriptMode = "async defer"
)

// ParseScriptMode validates s. Empty input means ScriptSync.
func ParseScriptMode(s string) (ScriptMode, error) {
	switch m := ScriptMode(strings.Join(strings.Fields(s), " ")); m {
	case "":
		return ScriptSync, nil
	case ScriptSync, ScriptAsync, ScriptDefer, ScriptAsyncDefer:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want sync, async, defer or \"async defer\")", ErrInvalidScriptMode, s)
	}
}

// RewriteScripts adds the mode attributes to every module script tag.
// ScriptSync leaves the document unchanged.
func RewriteScripts(indexHTML string, mode ScriptMode) string {
	if mode == "" || mode == ScriptSync {
		return indexHTML
	}
	return strings.ReplaceAll(indexHTML, `<script type="module" `, `<script type="module" `+string(mode)+` `)
}
