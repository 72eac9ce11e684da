// Package registry maps short format tags to their convertors. The mapping
// is fixed at startup; there is no dynamic registration.
package registry

import (
	"fmt"

	"transdex/internal/convertor/mtool"
	"transdex/internal/convertor/transpp"
	"transdex/internal/convertor/xunity"
	"transdex/internal/domain"
	"transdex/internal/ports"
)

type entry struct {
	newConvertor func() ports.Convertor
	description  string
}

// tags fixes the enumeration order for help text.
var tags = []string{mtool.FormatTag, xunity.FormatTag, transpp.FormatTag}

var convertors = map[string]entry{
	mtool.FormatTag: {
		newConvertor: func() ports.Convertor { return mtool.New() },
		description: "ManualTransFile.json generated by MTool.\n" +
			"---------------Example---------------\n" +
			"{\n" +
			"    \"old text\": \"new_text\",\n" +
			"    \"hello world\": \"你好世界\",\n" +
			"}\n" +
			"-------------------------------------",
	},
	xunity.FormatTag: {
		newConvertor: func() ports.Convertor { return xunity.New() },
		description: "_AutoGeneratedTranslations.txt generated by XUnity Auto Translator.\n" +
			"---------------Example---------------\n" +
			"old_text=new_text\n" +
			"hello world=你好世界\n" +
			"-------------------------------------",
	},
	transpp.FormatTag: {
		newConvertor: func() ports.Convertor { return transpp.New() },
		description: "xlsx file generated by Translator++.\n" +
			"---------------Example---------------\n" +
			"Original Text|Initial|Machine translation|Better translation|Best translation\n" +
			"old_text|new_text\n" +
			"hello world|你好世界\n" +
			"-------------------------------------",
	},
}

// Get resolves a format tag to a fresh convertor instance.
func Get(tag string) (ports.Convertor, error) {
	e, ok := convertors[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, tag)
	}
	return e.newConvertor(), nil
}

// Valid reports whether tag is registered.
func Valid(tag string) bool {
	_, ok := convertors[tag]
	return ok
}

// Available lists the registered tags in declaration order.
func Available() []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// Info lists (tag, description) pairs for user-facing help.
func Info() [][2]string {
	out := make([][2]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, [2]string{t, convertors[t].description})
	}
	return out
}
