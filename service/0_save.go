package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/fulldump/apitest"

	"github.com/fulldump/registryviews/utils"
)

// Save renders an acceptance request/response as a markdown example. Files
// are written only when API_EXAMPLES_PATH is set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := ""
	if request.URL.RawQuery != "" {
		query = "?" + request.URL.RawQuery
	}

	b := &strings.Builder{}

	fmt.Fprintf(b, "# %s\n\n", title)
	if description != "" {
		fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(description))
	}

	// curl
	method := ""
	if request.Method != "GET" {
		method = "-X " + request.Method + " "
	}
	b.WriteString("```sh\n")
	fmt.Fprintf(b, "curl %s\"https://example.com%s%s\"", method, request.URL.Path, query)
	for _, k := range utils.GetKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(b, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if body := formatJSON(response.BodyRequestString()); body != "" {
		fmt.Fprintf(b, " \\\n-d '%s'", body)
	}
	b.WriteString("\n```\n\n")

	// raw exchange
	b.WriteString("```http\n")
	fmt.Fprintf(b, "%s %s%s %s\n", request.Method, request.URL.Path, query, request.Proto)
	b.WriteString("Host: example.com\n")
	for _, k := range utils.GetKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(b, "\n%s\n\n", formatJSON(response.BodyRequestString()))

	fmt.Fprintf(b, "%s %s\n", response.Proto, response.Status)
	for _, k := range utils.GetKeys(response.Header) {
		if k == "Date" {
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(b, "\n%s\n```\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	err := os.WriteFile(p, []byte(b.String()), 0666)
	if err != nil {
		fmt.Println("Saving err:", err)
	}
}

// formatJSON indents body when it is a single JSON document, otherwise it
// is returned as is (streams, plain text).
func formatJSON(body string) string {

	var i interface{}
	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	indented, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(indented)
}
