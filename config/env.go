package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Default locations of the environment files
const (
	EnvFile         = ".env"
	EnvTemplateFile = ".env.template"
)

// defaultEnvTemplate is used when no template file exists
var defaultEnvTemplate = map[string]string{
	"LLM_MODEL":    "ollama",
	"OLLAMA_MODEL": defaultOllamaModel,
}

// LoadEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = EnvFile
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// IsEnvComplete reports whether every key in the template has a non-empty
// value in the env file
func IsEnvComplete(envPath, templatePath string) (bool, error) {
	template, err := readTemplate(templatePath)
	if err != nil {
		return false, err
	}
	current, err := readEnv(envPath)
	if err != nil {
		return false, err
	}
	for key := range template {
		if current[key] == "" {
			return false, nil
		}
	}
	return true, nil
}

// RunEnvSetup prompts on out for each template key, reading answers from
// in. An empty answer keeps the current value. The result is written to
// envPath.
func RunEnvSetup(in io.Reader, out io.Writer, envPath, templatePath string) error {
	template, err := readTemplate(templatePath)
	if err != nil {
		return err
	}
	current, err := readEnv(envPath)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(template))
	for key := range template {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(out, "PersonaOS onboarding: configuring environment...")
	scanner := bufio.NewScanner(in)
	for _, key := range keys {
		value := current[key]
		if value == "" {
			value = template[key]
		}
		fmt.Fprintf(out, "%s [%s]: ", key, value)

		if scanner.Scan() {
			if answer := strings.TrimSpace(scanner.Text()); answer != "" {
				value = answer
			}
		}
		if value != "" {
			current[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := godotenv.Write(current, envPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", envPath, err)
	}
	fmt.Fprintln(out, "Environment setup complete!")
	return nil
}

// ResetEnv removes the env file. It reports whether a file was removed.
func ResetEnv(envPath string) (bool, error) {
	err := os.Remove(envPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to remove %s: %w", envPath, err)
	}
}

func readTemplate(path string) (map[string]string, error) {
	template, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		template = make(map[string]string, len(defaultEnvTemplate))
		for k, v := range defaultEnvTemplate {
			template[k] = v
		}
		return template, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return template, nil
}

func readEnv(path string) (map[string]string, error) {
	current, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return current, nil
}
