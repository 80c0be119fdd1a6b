package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	cliflag "k8s.io/component-base/cli/flag"
)

type demoOptions struct {
	Demo struct {
		Name  string `mapstructure:"name"`
		Count int    `mapstructure:"count"`
	} `mapstructure:"demo"`

	completed bool
	invalid   error
}

func (o *demoOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fs := fss.FlagSet("demo")
	fs.StringVar(&o.Demo.Name, "demo.name", "flag-default", "Name.")
	fs.IntVar(&o.Demo.Count, "demo.count", 1, "Count.")
	return fss
}

func (o *demoOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *demoOptions) Validate() error { return o.invalid }

func runApp(t *testing.T, opts *demoOptions, args ...string) error {
	t.Helper()
	configFile = ""
	t.Cleanup(func() { configFile = "" })

	a := NewApp("rover-test", "test app",
		WithOptions(opts),
		WithDefaultValidArgs(),
		WithRunFunc(func() error { return nil }),
	)
	a.Command().SetArgs(append([]string{}, args...))
	return a.Command().Execute()
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("rover-brain"); got != "ROVER_BRAIN" {
		t.Errorf("envPrefix() = %q", got)
	}
}

func TestFlagsAndDefaults(t *testing.T) {
	opts := &demoOptions{}
	if err := runApp(t, opts, "--demo.count=3"); err != nil {
		t.Fatal(err)
	}
	if opts.Demo.Name != "flag-default" || opts.Demo.Count != 3 {
		t.Errorf("got %+v", opts.Demo)
	}
	if !opts.completed {
		t.Error("Complete was not called")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ROVER_TEST_DEMO_NAME", "from-env")

	opts := &demoOptions{}
	if err := runApp(t, opts); err != nil {
		t.Fatal(err)
	}
	if opts.Demo.Name != "from-env" {
		t.Errorf("Name = %q, want from-env", opts.Demo.Name)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rover.yaml")
	if err := os.WriteFile(path, []byte("demo:\n  name: from-file\n  count: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &demoOptions{}
	if err := runApp(t, opts, "--config", path); err != nil {
		t.Fatal(err)
	}
	if opts.Demo.Name != "from-file" || opts.Demo.Count != 7 {
		t.Errorf("got %+v", opts.Demo)
	}
}

func TestValidationError(t *testing.T) {
	want := errors.New("bad options")
	err := runApp(t, &demoOptions{invalid: want})
	if !errors.Is(err, want) {
		t.Errorf("Execute() error = %v, want %v", err, want)
	}
}

func TestRejectsPositionalArgs(t *testing.T) {
	if err := runApp(t, &demoOptions{}, "extra"); err == nil {
		t.Error("expected an error for a positional argument")
	}
}
