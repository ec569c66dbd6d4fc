// Package wpconfig extracts database settings from a WordPress
// wp-config.php so deployments can be prefilled from the site itself.
package wpconfig

import (
	"fmt"
	"io"
	"os"
	"regexp"
)

// Values holds the database constants found in a wp-config.php.
type Values struct {
	Name        string
	User        string
	Password    string
	Host        string
	Charset     string
	TablePrefix string
}

// Empty reports whether no database settings were found at all.
func (v Values) Empty() bool {
	return v == Values{}
}

var (
	defineRegex = regexp.MustCompile(`define\(\s*['"]([A-Z_]+)['"]\s*,\s*['"]([^'"]*)['"]\s*\)`)
	prefixRegex = regexp.MustCompile(`\$table_prefix\s*=\s*['"]([^'"]+)['"]`)
)

// Load reads the wp-config.php at path and extracts its database settings.
func Load(path string) (Values, error) {
	f, err := os.Open(path)
	if err != nil {
		return Values{}, fmt.Errorf("open wp-config %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse extracts database settings from wp-config.php source. Constants
// defined with expressions rather than string literals are skipped; only
// quoted values can be read without executing PHP.
func Parse(r io.Reader) (Values, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Values{}, fmt.Errorf("read wp-config: %w", err)
	}

	var values Values
	for _, match := range defineRegex.FindAllStringSubmatch(string(src), -1) {
		name, value := match[1], match[2]
		switch name {
		case "DB_NAME":
			values.Name = value
		case "DB_USER":
			values.User = value
		case "DB_PASSWORD":
			values.Password = value
		case "DB_HOST":
			values.Host = value
		case "DB_CHARSET":
			values.Charset = value
		}
	}
	if match := prefixRegex.FindStringSubmatch(string(src)); match != nil {
		values.TablePrefix = match[1]
	}
	return values, nil
}
