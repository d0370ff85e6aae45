package steps

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cucumber/godog"

	"github.com/chriserin/gk/cmd"
	"github.com/chriserin/gk/internal/config"
)

var discard = log.New(io.Discard, "", 0)

// InitializeCLISteps registers the steps that run gk commands in process.
func InitializeCLISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^an initialized index$`, anInitializedIndex)

	ctx.Step(`^I sync$`, iSync)
	ctx.Step(`^I list scenarios$`, iListScenarios)
	ctx.Step(`^I list scenarios tagged "([^"]*)"$`, iListScenariosTagged)
	ctx.Step(`^I show scenario "([^"]*)"$`, iShowScenario)
	ctx.Step(`^I count tags$`, iCountTags)
	ctx.Step(`^I check the features$`, iCheckTheFeatures)

	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, theOutputShouldNotContain)
	ctx.Step(`^the output should be:$`, theOutputShouldBe)
}

func run(ctx context.Context, fn func(w io.Writer, cfg *config.Config) error) {
	w := getWorld(ctx)
	w.out.Reset()
	w.err = fn(&w.out, config.Default())
}

func anInitializedIndex(ctx context.Context) error {
	run(ctx, cmd.RunInit)
	return getWorld(ctx).err
}

func iSync(ctx context.Context) error {
	run(ctx, func(w io.Writer, cfg *config.Config) error {
		return cmd.RunSync(w, cfg, discard)
	})
	return nil
}

func iListScenarios(ctx context.Context) error {
	return iListScenariosTagged(ctx, "")
}

func iListScenariosTagged(ctx context.Context, tag string) error {
	run(ctx, func(w io.Writer, cfg *config.Config) error {
		return cmd.RunList(w, cfg, tag)
	})
	return nil
}

func iShowScenario(ctx context.Context, id string) error {
	run(ctx, func(w io.Writer, cfg *config.Config) error {
		return cmd.RunShow(w, cfg, id)
	})
	return nil
}

func iCountTags(ctx context.Context) error {
	run(ctx, cmd.RunTags)
	return nil
}

func iCheckTheFeatures(ctx context.Context) error {
	run(ctx, func(w io.Writer, cfg *config.Config) error {
		return cmd.RunCheck(w, cfg, nil)
	})
	return nil
}

func theCommandShouldFailWith(ctx context.Context, msg string) error {
	w := getWorld(ctx)
	if w.err == nil {
		return fmt.Errorf("expected failure %q, command succeeded", msg)
	}
	if !strings.Contains(w.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, w.err.Error())
	}
	return nil
}

func theOutputShouldContain(ctx context.Context, text string) error {
	w := getWorld(ctx)
	if w.err != nil {
		return fmt.Errorf("command failed: %w", w.err)
	}
	if !strings.Contains(w.out.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, w.out.String())
	}
	return nil
}

func theOutputShouldNotContain(ctx context.Context, text string) error {
	w := getWorld(ctx)
	if strings.Contains(w.out.String(), text) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", text, w.out.String())
	}
	return nil
}

func theOutputShouldBe(ctx context.Context, expected *godog.DocString) error {
	w := getWorld(ctx)
	if w.err != nil {
		return fmt.Errorf("command failed: %w", w.err)
	}
	if got := strings.TrimRight(w.out.String(), "\n"); got != expected.Content {
		return fmt.Errorf("expected output:\n%s\ngot:\n%s", expected.Content, got)
	}
	return nil
}
