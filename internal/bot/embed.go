package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/qepting91/memebot/internal/domain"
)

const (
	colorOrange = 0xE67E22
	colorRed    = 0xE74C3C
	colorBlue   = 0x3498DB
)

func memeEmbed(m domain.Meme, title string, current, total int) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Subreddit", Value: "r/" + m.Subreddit, Inline: true},
		{Name: "Score", Value: fmt.Sprintf("⬆️ %d", m.Score), Inline: true},
		{Name: "Author", Value: "u/" + m.Author, Inline: true},
	}
	if m.SortMethod != "" {
		sort := titleCase(m.SortMethod)
		if m.SortMethod == string(domain.SortTop) && m.TimeFilter != "" {
			sort += " (" + m.TimeFilter + ")"
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Sort", Value: sort, Inline: true})
	}
	if m.SearchMethod != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Search", Value: titleCase(m.SearchMethod), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%d/%d)", title, current, total),
		Description: m.Title,
		URL:         m.Permalink,
		Color:       colorOrange,
		Image:       &discordgo.MessageEmbedImage{URL: m.URL},
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Click the title to view on Reddit"},
	}
}

func errorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       colorRed,
	}
}

func helpEmbed(prefix string) *discordgo.MessageEmbed {
	commands := []struct{ usage, desc string }{
		{prefix + "meme [keyword]", "Fetch memes by keyword or get trending memes"},
		{prefix + "random [count]", fmt.Sprintf("Get random memes (default: %d, max: %d)", defaultCount, maxCount)},
		{prefix + "search <keyword> [subreddit] [count]", "Search memes in specific subreddit"},
		{prefix + "help", "Show this help message"},
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎭 Meme Fetcher Bot Help",
		Description: "A Discord bot that fetches memes from Reddit!",
		Color:       colorBlue,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Powered by Reddit API"},
	}
	for _, c := range commands {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: c.usage, Value: c.desc})
	}

	examples := []string{prefix + "meme cat", prefix + "random 5", prefix + "search dog memes 3", prefix + "search programming ProgrammerHumor 2"}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "📝 Examples",
		Value: "```\n" + strings.Join(examples, "\n") + "```",
	})
	return embed
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
