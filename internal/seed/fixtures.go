package seed

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

const defaultFixture = "fixtures/blog.yaml"

// Fixtures is the YAML seed document
type Fixtures struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Posts      []PostFixture     `yaml:"posts"`
}

type UserFixture struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Admin     bool   `yaml:"admin"`
}

// CategoryFixture names its owner by username; the owner is ignored when
// categories run unowned.
type CategoryFixture struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner"`
}

type PostFixture struct {
	Title      string           `yaml:"title"`
	Body       string           `yaml:"body"`
	Owner      string           `yaml:"owner"`
	Categories []string         `yaml:"categories"` // category names
	Comments   []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Owner string `yaml:"owner"`
	Body  string `yaml:"body"`
}

// LoadFixtures reads fixtures from path, or the embedded demo data when
// path is empty or "-".
func LoadFixtures(path string) (*Fixtures, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		path = defaultFixture
		data, err = fixtureFiles.ReadFile(defaultFixture)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	return ParseFixtures(data)
}

// ParseFixtures decodes a YAML fixture document
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal fixtures: %w", err)
	}
	return &f, nil
}
