// cmd/tools/intent-registry/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voice-assistant/internal/assistant"
	"voice-assistant/pkg/registry"
)

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	matchCmd := flag.NewFlagSet("match", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, listCmd, matchCmd} {
		fs.StringVar(&registryPath, "path", "responses.json", "Path to intent file")
	}

	// Add command flags
	nameAdd := addCmd.String("name", "", "Intent name (e.g., greeting)")
	questions := addCmd.String("questions", "", "Question variants separated by '|' (e.g., \"hello|hi\")")
	answer := addCmd.String("answer", "", "Answer text, or TIME for the current time")

	// Update command flags
	nameUpdate := updateCmd.String("name", "", "Intent name to update")
	field := updateCmd.String("field", "", "Field to update (answer, add-question, remove-question)")
	value := updateCmd.String("value", "", "New value for the field")

	// Match command flags
	question := matchCmd.String("question", "", "Question to resolve against the table")
	threshold := matchCmd.Int("threshold", assistant.DefaultFuzzyThreshold, "Fuzzy match threshold (0-100)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *nameAdd == "" || *questions == "" || *answer == "" {
			fmt.Println("Error: name, questions, and answer are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if err := addIntent(*nameAdd, splitQuestions(*questions), *answer); err != nil {
			fmt.Printf("Error adding intent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added intent: %s\n", *nameAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *nameUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: name, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateIntent(*nameUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating intent: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated intent %s, field %s\n", *nameUpdate, *field)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateIntents(); err != nil {
			fmt.Printf("Intent file validation failed: %v\n", err)
			os.Exit(1)
		}

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listIntents(); err != nil {
			fmt.Printf("Error listing intents: %v\n", err)
			os.Exit(1)
		}

	case "match":
		matchCmd.Parse(os.Args[2:])
		if *question == "" {
			fmt.Println("Error: question is required for match.")
			matchCmd.Usage()
			os.Exit(1)
		}
		if err := matchQuestion(*question, *threshold); err != nil {
			fmt.Printf("Error matching question: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func splitQuestions(raw string) []string {
	var out []string
	for _, q := range strings.Split(raw, "|") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func loadOrNew(path string) (*registry.IntentTable, error) {
	table, err := registry.LoadRegistry(path)
	if err != nil {
		// If file doesn't exist, start an empty table
		if errors.Is(err, os.ErrNotExist) {
			return registry.Empty(), nil
		}
		return nil, fmt.Errorf("failed to load intents: %w", err)
	}
	return table, nil
}

func addIntent(name string, questions []string, answer string) error {
	if len(questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	table, err := loadOrNew(registryPath)
	if err != nil {
		return err
	}
	if _, exists := table.Lookup(name); exists {
		return fmt.Errorf("intent %s already exists", name)
	}
	return saveIntents(table.With(registry.Intent{Name: name, Questions: questions, Answer: &answer}), registryPath)
}

func updateIntent(name, field, value string) error {
	table, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load intents: %w", err)
	}

	in, found := table.Lookup(name)
	if !found {
		return fmt.Errorf("intent %s not found", name)
	}

	switch field {
	case "answer":
		in.Answer = &value
	case "add-question":
		in.Questions = append(append([]string{}, in.Questions...), value)
	case "remove-question":
		kept := make([]string, 0, len(in.Questions))
		for _, q := range in.Questions {
			if q != value {
				kept = append(kept, q)
			}
		}
		if len(kept) == len(in.Questions) {
			return fmt.Errorf("intent %s has no question %q", name, value)
		}
		in.Questions = kept
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	return saveIntents(table.With(in), registryPath)
}

// validateIntents runs schema validation plus checks the schema cannot
// express: missing answers, empty variant lists, variants no normalized
// question can equal, and variants shared by several intents (only the
// first would ever match).
func validateIntents() error {
	table, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}

	if table.Len() == 0 {
		return fmt.Errorf("intent file contains no intents")
	}

	var problems []string
	owner := make(map[string]string)
	for _, in := range table.Intents() {
		if !in.HasAnswer() {
			problems = append(problems, fmt.Sprintf("intent %s missing answer", in.Name))
		}
		if len(in.Questions) == 0 {
			problems = append(problems, fmt.Sprintf("intent %s has no questions", in.Name))
		}
		for _, q := range in.Questions {
			key := assistant.VariantKey(q)
			if assistant.Normalize(q) != key {
				problems = append(problems, fmt.Sprintf("question %q in %s unreachable by exact match", q, in.Name))
				continue
			}
			if prev, dup := owner[key]; dup && prev != in.Name {
				problems = append(problems, fmt.Sprintf("question %q in %s shadowed by %s", q, in.Name, prev))
				continue
			}
			owner[key] = in.Name
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	fmt.Printf("Intent file validation passed. Found %d intents.\n", table.Len())
	return nil
}

func listIntents() error {
	table, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	for _, in := range table.Intents() {
		answer := "<missing>"
		if in.HasAnswer() {
			answer = *in.Answer
		}
		fmt.Printf("%-20s %d question(s)  answer: %s\n", in.Name, len(in.Questions), answer)
	}
	return nil
}

// matchQuestion shows which intent the predefined steps would pick.
func matchQuestion(question string, threshold int) error {
	table, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	query := assistant.Normalize(question)
	fmt.Printf("normalized: %q\n", query)

	if m := assistant.ExactMatch(query, table); m.Matched() {
		fmt.Printf("exact match: %s\n", m.Intent.Name)
		return nil
	}
	m := assistant.FuzzyMatch(query, table, threshold)
	if m.Matched() {
		fmt.Printf("fuzzy match: %s (score %d)\n", m.Intent.Name, m.Score)
		return nil
	}
	fmt.Printf("no match (best score %d < %d): would go to the remote fallback\n", m.Score, threshold)
	return nil
}

// saveIntents handles saving the table to file
func saveIntents(table *registry.IntentTable, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := registry.Save(path, table); err != nil {
		return fmt.Errorf("failed to write intent file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: intent-registry <command> [flags]

Commands:
  add       Add a new intent
  update    Update an existing intent's answer or questions
  validate  Validate the intent file
  list      List intents in file order
  match     Show which intent a question resolves to
  help      Show this help message

Examples:
  intent-registry add -name greeting -questions "hello|hi|hey" -answer "Hello! How can I help you?"
  intent-registry update -name greeting -field add-question -value "good morning"
  intent-registry validate -path responses.json
  intent-registry match -question "helo"

Use 'intent-registry <command> -h' for more information about a command.
`)
}
