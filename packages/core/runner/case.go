package runner

import (
	"context"
	"errors"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"github.com/abdul-hamid-achik/yhspec/packages/http"
)

var ErrNoRequest = errors.New("test case has no request")

// Transport performs a request and returns the carrier extractions and
// assertions run against: an *http.Response, a ws.Message or an
// extract.RawJSON.
type Transport interface {
	Do(ctx context.Context, req *http.RequestSpec) (any, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *http.RequestSpec) (any, error)

func (f TransportFunc) Do(ctx context.Context, req *http.RequestSpec) (any, error) {
	return f(ctx, req)
}

// Extraction binds the value of Expression to Name once the response arrives.
type Extraction struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
}

// TestCase is one loaded test definition.
type TestCase struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Request     *http.RequestSpec  `yaml:"request" json:"request"`
	Extract     []Extraction       `yaml:"extract,omitempty" json:"extract,omitempty"`
	Assertions  []*assertions.Spec `yaml:"assertions,omitempty" json:"assertions,omitempty"`
	DependsOn   []string           `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Skip        string             `yaml:"skip,omitempty" json:"skip,omitempty"`
	Tags        []string           `yaml:"tags,omitempty" json:"tags,omitempty"`
	TestData    map[string]any     `yaml:"test_data,omitempty" json:"test_data,omitempty"`
}
