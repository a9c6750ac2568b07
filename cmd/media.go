package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/color"
	"github.com/anisan-cli/katalog/extension"
	"github.com/anisan-cli/katalog/icon"
	"github.com/anisan-cli/katalog/provider"
	"github.com/anisan-cli/katalog/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// resolveMedia finds the provider named by a global id and rebuilds the media handle it expects.
func resolveMedia(globalID, url string) (extension.Provider, *catalog.Media, error) {
	managerID, extensionID, mediaID, err := catalog.ParseGlobalID(globalID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := provider.Registry(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Warn), err)
	}

	p, ok := provider.Find(extensionID)
	if !ok || p.ID() != extensionID {
		return nil, nil, fmt.Errorf("provider %s is not loaded", style.Fg(color.Red)(extensionID))
	}
	if p.Manager() != managerID {
		return nil, nil, fmt.Errorf("provider %s belongs to %s, not %s", extensionID, p.Manager(), managerID)
	}

	media := catalog.NewMedia(globalID)
	media.SetID(managerID, mediaID)
	media.URL = lo.CoalesceOrEmpty(url, mediaID)
	return p, media, nil
}

func encodeJSON(cmd *cobra.Command, value any) {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(value))
}

func init() {
	rootCmd.AddCommand(episodesCmd)

	episodesCmd.Flags().StringP("url", "u", "", "Media URL when it differs from the id part of the global id")
	episodesCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	episodesCmd.SetOut(os.Stdout)
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <global id>",
	Short: "List the episodes or chapters of a media",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, media, err := resolveMedia(args[0], lo.Must(cmd.Flags().GetString("url")))
		handleErr(err)

		episodes, err := extension.Call(func(cb extension.Callback[[]*catalog.Episode]) {
			p.Episodes(&extension.EpisodesRequest{Media: media}, cb)
		}).Await()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encodeJSON(cmd, episodes)
			return
		}

		for _, episode := range episodes {
			line := fmt.Sprintf("%s %s", style.Fg(color.Yellow)(fmt.Sprintf("%6g", episode.Number)), style.Bold(episode.String()))
			if episode.ReleaseDate != nil {
				line += " " + style.Faint(episode.ReleaseDate.Format("2006-01-02"))
			}
			cmd.Println(line)
			cmd.Println("       " + style.Faint(episode.URL))
		}
	},
}

func init() {
	rootCmd.AddCommand(videosCmd)

	videosCmd.Flags().StringP("url", "u", "", "Media URL when it differs from the id part of the global id")
	videosCmd.Flags().Float64P("number", "n", 0, "Episode number passed to the provider")
	videosCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	videosCmd.SetOut(os.Stdout)
}

var videosCmd = &cobra.Command{
	Use:   "videos <global id> <episode url>",
	Short: "List the streams or pages of an episode",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p, media, err := resolveMedia(args[0], lo.Must(cmd.Flags().GetString("url")))
		handleErr(err)

		episode := &catalog.Episode{
			ID:     args[1],
			URL:    args[1],
			Number: lo.Must(cmd.Flags().GetFloat64("number")),
			Media:  media,
		}

		videos, err := extension.Call(func(cb extension.Callback[[]*catalog.Video]) {
			p.Videos(&extension.VideosRequest{Episode: episode}, cb)
		}).Await()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encodeJSON(cmd, videos)
			return
		}

		for _, video := range videos {
			cmd.Printf("%s %s\n", style.Bold(video.String()), video.URL)
			for name, value := range video.Headers {
				cmd.Printf("  %s %s\n", style.Faint(name+":"), value)
			}
			for _, subtitle := range video.Subtitles {
				cmd.Printf("  %s %s\n", style.Fg(color.Cyan)(lo.CoalesceOrEmpty(subtitle.Language, "sub")), subtitle.URL)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd)

	commentsCmd.Flags().StringP("url", "u", "", "Media URL when it differs from the id part of the global id")
	commentsCmd.Flags().IntP("page", "P", 0, "Comments page, starting from 0")
	commentsCmd.Flags().StringP("post", "m", "", "Post a comment with this text instead of reading")
	commentsCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	commentsCmd.SetOut(os.Stdout)
}

var commentsCmd = &cobra.Command{
	Use:   "comments <global id>",
	Short: "Read or post comments on a media",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, media, err := resolveMedia(args[0], lo.Must(cmd.Flags().GetString("url")))
		handleErr(err)

		var future *extension.Future[*catalog.Comment]
		if text := lo.Must(cmd.Flags().GetString("post")); text != "" {
			future = extension.Call(func(cb extension.Callback[*catalog.Comment]) {
				p.PostComment(&extension.PostCommentRequest{Media: media, Text: text}, cb)
			})
		} else {
			future = extension.Call(func(cb extension.Callback[*catalog.Comment]) {
				p.ReadComments(&extension.ReadCommentsRequest{
					Media: media,
					Page:  lo.Must(cmd.Flags().GetInt("page")),
				}, cb)
			})
		}

		root, err := future.Await()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encodeJSON(cmd, root)
			return
		}

		printComments(cmd, root)
	},
}

func printComments(cmd *cobra.Command, root *catalog.Comment) {
	root.Walk(func(comment *catalog.Comment, depth int) bool {
		indent := strings.Repeat("  ", depth)

		header := style.Bold(lo.CoalesceOrEmpty(comment.AuthorName, "anonymous"))
		if comment.Date != "" {
			header += " " + style.Faint(comment.Date)
		}
		cmd.Println(indent + header)

		if comment.Text != "" {
			cmd.Println(indent + comment.Text)
		}

		var counters []string
		for _, counter := range []struct {
			label string
			count catalog.Count
		}{
			{"likes", comment.Likes},
			{"dislikes", comment.Dislikes},
			{"replies", comment.Comments},
		} {
			visibility := counter.count.Visibility()
			if !visibility.Affordance {
				continue
			}
			if visibility.Number {
				counters = append(counters, lo.CoalesceOrEmpty(counter.count.Label(), "0")+" "+counter.label)
			} else {
				counters = append(counters, counter.label)
			}
		}
		if comment.VotesVisible() {
			counters = append(counters, fmt.Sprintf("%d votes", *comment.Votes))
		}
		if len(counters) > 0 {
			cmd.Println(indent + style.Fg(color.Cyan)(strings.Join(counters, " · ")))
		}

		return true
	})
}
