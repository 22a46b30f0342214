package prompter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fencePattern matches a whole response wrapped in a markdown code fence,
// with an optional language tag.
var fencePattern = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// promptListSchema is the shape of a generate response.
const promptListSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {"type": "string"}
}`

var promptList = jsonschema.MustCompileString("prompt_list.json", promptListSchema)

// stripCodeFences trims content and, when the whole of it is fenced as
// ```json ... ``` or ``` ... ```, returns only the inner text.
func stripCodeFences(content string) string {
	cleaned := strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil && m[2] != "" {
		cleaned = strings.TrimSpace(m[2])
	}
	return cleaned
}

// parsePromptList decodes a generate response. It returns a
// *json.SyntaxError for text that is not JSON and errNotPromptList for JSON
// of the wrong shape.
func parsePromptList(content string) ([]string, error) {
	cleaned := stripCodeFences(content)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, err
	}
	if err := promptList.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotPromptList, err)
	}

	items := doc.([]any)
	prompts := make([]string, len(items))
	for i, item := range items {
		prompts[i] = item.(string)
	}
	return prompts, nil
}
