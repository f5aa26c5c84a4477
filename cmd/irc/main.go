package main

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/api"
	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
)

var errImageURLRequired = errors.New("image models take an image URL here")

const (
	// ConfigKeyIRCServerName host:port of the IRC server
	ConfigKeyIRCServerName = "ircServerName"
	// ConfigKeyIRCNick the bot's nick
	ConfigKeyIRCNick = "ircNick"
	// ConfigKeyIRCChannel the channel to join, without "#"
	ConfigKeyIRCChannel = "ircChannel"
	// ConfigKeyIRCCommandPrefix what commands start with
	ConfigKeyIRCCommandPrefix = "ircCommandPrefix"
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
	serverName := config.GetStringOrDefault(ConfigKeyIRCServerName, "irc.euirc.net:6667")
	nick := config.GetStringOrDefault(ConfigKeyIRCNick, "ModelDesk")
	channel := "#" + strings.TrimPrefix(config.GetStringOrDefault(ConfigKeyIRCChannel, "modeldesk"), "#")
	prefix := config.GetStringOrDefault(ConfigKeyIRCCommandPrefix, "!")
	ircBot, err := hbot.NewBot(serverName, nick)
	if err != nil {
		return err
	}
	view := &ircView{bot: ircBot, channel: channel}
	desk, stoppable, err := api.NewAPI(config, view)
	if err != nil {
		return err
	}
	defer stoppable.Stop()
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "JOIN" || m.Command == "PRIVMSG"
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			if m.Command == "JOIN" {
				if m.From == b.Nick {
					view.joined.Store(true)
				}
				return false
			}
			if m.To != channel || !strings.HasPrefix(m.Content, prefix) {
				return false
			}
			for _, line := range executeCommand(desk, strings.TrimSpace(m.Content[len(prefix):])) {
				b.Reply(m, m.From+": "+line)
			}
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{channel}
	ircBot.Run()
	return nil
}

// ircView relays the output log to the channel. Output produced before the bot has joined stays in the log only.
type ircView struct {
	bot     *hbot.Bot
	channel string
	joined  atomic.Bool
}

func (i *ircView) ShowBusy(bool) {}

func (i *ircView) WriteOutput(line string) {
	if !i.joined.Load() {
		return
	}
	// IRC messages are single-line.
	for _, part := range strings.Split(line, "\n") {
		i.bot.Msg(i.channel, part)
	}
}

// executeCommand returns the lines to reply with. Results of runs arrive later through the view.
func executeCommand(desk api.API, line string) []string {
	name, argument, _ := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)
	var err error
	switch strings.ToLower(name) {
	case "models":
		return []string{"models: " + strings.Join(desk.Models(), ", ") + " (current: " + desk.CurrentModel() + ")"}
	case "model":
		err = desk.SelectModel(argument)
	case "run":
		// Nobody in the channel gets to read files off this machine.
		if desk.CurrentModelKind() == domain.ModelKindImage && !isHTTPURL(argument) {
			err = errImageURLRequired
		} else if err = desk.SetInput(argument); err == nil {
			err = desk.Run()
		}
	case "info":
		var info string
		info, err = desk.Help("info")
		if err == nil {
			return strings.Split(info, "\n")
		}
	case "clearcache":
		err = desk.ClearModelCache()
	case "help":
		return []string{"commands: models, model <name>, run <text or image URL>, info, clearcache"}
	default:
		return nil
	}
	if err != nil && !api.IsReported(err) {
		return []string{"error: " + err.Error()}
	}
	return nil
}

func isHTTPURL(str string) bool {
	return strings.HasPrefix(str, "http://") || strings.HasPrefix(str, "https://")
}
