package main

import "strings"

// stringList collects repeated occurrences of a flag, e.g. -root a -root b.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
