package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/api"
)

const (
	idlePrompt = "> "
	busyPrompt = "🔄 Processing... > "
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfigOrEmpty("config.yaml")
	if err != nil {
		return err
	}
	var models []string
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          idlePrompt,
		AutoComplete:    newCompleter(func() []string { return models }),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	desk, stoppable, err := api.NewAPI(config, &consoleView{rl: rl, out: rl.Stdout()})
	if err != nil {
		return err
	}
	defer stoppable.Stop()
	models = desk.Models()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			reportError(rl.Stdout(), runWith(desk, line))
			continue
		}
		quit, err := executeCommand(desk, rl.Stdout(), line[1:])
		reportError(rl.Stdout(), err)
		if quit {
			break
		}
	}
	return nil
}

// consoleView is called from the API's event loop; readline redraws the prompt after each write.
type consoleView struct {
	rl  *readline.Instance
	out io.Writer
}

func (c *consoleView) ShowBusy(busy bool) {
	if busy {
		c.rl.SetPrompt(busyPrompt)
	} else {
		c.rl.SetPrompt(idlePrompt)
	}
	c.rl.Refresh()
}

func (c *consoleView) WriteOutput(line string) {
	_, _ = fmt.Fprintln(c.out, line)
}

func newCompleter(models func() []string) readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(":models"),
		readline.PcItem(":model", readline.PcItemDynamic(func(string) []string { return models() })),
		readline.PcItem(":run"),
		readline.PcItem(":text"),
		readline.PcItem(":image"),
		readline.PcItem(":open"),
		readline.PcItem(":save"),
		readline.PcItem(":output"),
		readline.PcItem(":clear"),
		readline.PcItem(":new"),
		readline.PcItem(":clearcache"),
		readline.PcItem(":reload"),
		readline.PcItem(":info"),
		readline.PcItem(":help", readline.PcItemDynamic(func(string) []string { return api.HelpTopics() })),
		readline.PcItem(":quit"),
	)
}

func runWith(desk api.API, input string) error {
	if err := desk.SetInput(input); err != nil {
		return err
	}
	return desk.Run()
}

// executeCommand returns true if the user wants to quit.
func executeCommand(desk api.API, out io.Writer, line string) (bool, error) {
	name, argument, _ := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)
	switch strings.ToLower(name) {
	case "models":
		current := desk.CurrentModel()
		for i, model := range desk.Models() {
			marker := " "
			if model == current {
				marker = "*"
			}
			_, _ = fmt.Fprintf(out, "%s %d. %s\n", marker, i+1, model)
		}
		return false, nil
	case "model":
		return false, desk.SelectModel(resolveModelName(desk.Models(), argument))
	case "run":
		return false, desk.Run()
	case "text":
		return false, desk.SetTextInput(argument)
	case "image":
		return false, desk.SetImageInput(argument)
	case "open":
		return false, desk.OpenInputFile(argument)
	case "save":
		if argument == "" {
			argument = "output.txt"
		}
		return false, desk.SaveOutput(argument)
	case "output":
		_, _ = fmt.Fprintln(out, desk.Output())
		return false, nil
	case "clear":
		return false, desk.ClearOutput()
	case "new":
		return false, desk.NewSession()
	case "clearcache":
		return false, desk.ClearModelCache()
	case "reload":
		return false, desk.ReloadCurrentModel()
	case "info":
		return false, printHelp(desk, out, "info")
	case "help":
		return false, printHelp(desk, out, argument)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command :%s (see :help shortcuts)", name)
	}
}

func printHelp(desk api.API, out io.Writer, topic string) error {
	text, err := desk.Help(topic)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, text)
	return nil
}

// resolveModelName accepts a 1-based index into the model list or a name, case-insensitive.
func resolveModelName(models []string, argument string) string {
	if index, err := strconv.Atoi(argument); err == nil && index >= 1 && index <= len(models) {
		return models[index-1]
	}
	for _, model := range models {
		if strings.EqualFold(model, argument) {
			return model
		}
	}
	return argument
}

func reportError(out io.Writer, err error) {
	if err != nil && !api.IsReported(err) {
		_, _ = fmt.Fprintln(out, "error:", err)
	}
}
