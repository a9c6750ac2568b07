package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"
)

func stringField(table *lua.LTable, key string, def string) string {
	value := table.RawGetString(key)
	switch value.Type() {
	case lua.LTString, lua.LTNumber:
		return value.String()
	default:
		return def
	}
}

// firstString returns the first non-empty string field among keys.
func firstString(table *lua.LTable, keys ...string) string {
	for _, k := range keys {
		if s := stringField(table, k, ""); s != "" {
			return s
		}
	}
	return ""
}

func numberField(table *lua.LTable, key string) (float64, bool) {
	switch value := table.RawGetString(key).(type) {
	case lua.LNumber:
		return float64(value), true
	case lua.LString:
		n, err := strconv.ParseFloat(strings.TrimSpace(string(value)), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// stringList accepts a comma separated string or a table of strings.
func stringList(table *lua.LTable, key string) []string {
	switch value := table.RawGetString(key).(type) {
	case lua.LString:
		return lo.FilterMap(strings.Split(string(value), ","), func(s string, _ int) (string, bool) {
			s = strings.TrimSpace(s)
			return s, s != ""
		})
	case *lua.LTable:
		var list []string
		value.ForEach(func(_, v lua.LValue) {
			if v.Type() == lua.LTString {
				list = append(list, v.String())
			}
		})
		return list
	default:
		return nil
	}
}

func stringMap(table *lua.LTable) map[string]string {
	if table == nil {
		return nil
	}

	m := make(map[string]string)
	table.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

// tables collects the table items of a Lua array, in index order.
func tables(list *lua.LTable) []*lua.LTable {
	var items []*lua.LTable
	for i := 1; i <= list.Len(); i++ {
		if item, ok := list.RawGetInt(i).(*lua.LTable); ok {
			items = append(items, item)
		}
	}
	return items
}

// collect converts every table of a Lua array. Invalid items are skipped unless
// nothing valid remains, in which case the first error is returned.
func collect[T any](list *lua.LTable, convert func(*lua.LTable, int) (T, error)) ([]T, error) {
	var (
		items []T
		errs  []error
	)

	for i, table := range tables(list) {
		item, err := convert(table, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}
	return items, nil
}

func mediaFromTable(managerID, providerID string, table *lua.LTable) (*catalog.Media, error) {
	title := firstString(table, "title", "name")
	url := stringField(table, "url", "")
	id := lo.CoalesceOrEmpty(stringField(table, "id", ""), url)

	if title == "" || id == "" {
		return nil, fmt.Errorf("%w: media must have a title and an id or url", ErrInvalidResult)
	}

	globalID, err := catalog.NewGlobalID(managerID, providerID, id)
	if err != nil {
		return nil, err
	}

	media := catalog.NewMedia(globalID)
	media.SetTitles(append([]string{title}, stringList(table, "synonyms")...)...)
	media.URL = url
	media.Description = firstString(table, "description", "summary")
	media.Banner = stringField(table, "banner", "")
	media.Country = stringField(table, "country", "")
	media.AgeRating = stringField(table, "age_rating", "")
	media.Genres = stringList(table, "genres")
	media.SetID(managerID, id)

	if poster := firstString(table, "poster", "cover"); poster != "" {
		media.SetPoster(poster)
	}
	if author := stringField(table, "author", ""); author != "" {
		media.SetAuthor("story", author)
	}

	if status := stringField(table, "status", ""); status != "" {
		normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(status), " ", "_"))
		if err := media.Status.UnmarshalText([]byte(normalized)); err != nil {
			media.Status = catalog.StatusUnknown
		}
	}
	if kind := stringField(table, "type", ""); kind != "" {
		_ = media.Type.UnmarshalText([]byte(strings.ToUpper(kind)))
	}

	if score, ok := numberField(table, "score"); ok {
		media.AverageScore = &score
	}
	if episodes, ok := numberField(table, "episodes"); ok {
		media.EpisodesCount = lo.ToPtr(int(episodes))
	}
	if duration, ok := numberField(table, "duration"); ok {
		media.Duration = lo.ToPtr(int(duration))
	}
	if released, ok := numberField(table, "release_date"); ok {
		media.ReleaseDate = lo.ToPtr(time.UnixMilli(int64(released)))
	}

	return media, nil
}

func mediaToTable(L *lua.LState, media *catalog.Media) *lua.LTable {
	table := L.NewTable()
	_, _, id, _ := media.Segments()

	table.RawSetString("id", lua.LString(id))
	table.RawSetString("url", lua.LString(media.URL))
	table.RawSetString("title", lua.LString(media.Title()))
	table.RawSetString("name", lua.LString(media.Title()))
	table.RawSetString("description", lua.LString(media.Description))
	table.RawSetString("poster", lua.LString(media.BestPoster()))
	return table
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

func episodeFromTable(media *catalog.Media, table *lua.LTable, index int) (*catalog.Episode, error) {
	title := firstString(table, "title", "name")
	url := stringField(table, "url", "")

	if title == "" || url == "" {
		return nil, fmt.Errorf("%w: episode must have a title and url", ErrInvalidResult)
	}

	episode := &catalog.Episode{
		ID:          lo.CoalesceOrEmpty(stringField(table, "id", ""), url),
		Title:       title,
		URL:         url,
		Banner:      stringField(table, "banner", ""),
		Description: stringField(table, "description", ""),
		Number:      float64(index + 1),
		Media:       media,
	}

	// the number in the title is more reliable than the order of the list
	if n, ok := numberField(table, "number"); ok {
		episode.Number = n
	} else if matches := numberPattern.FindAllString(title, -1); len(matches) > 0 {
		if n, err := strconv.ParseFloat(matches[len(matches)-1], 64); err == nil {
			episode.Number = n
		}
	}

	if released, ok := numberField(table, "release_date"); ok {
		episode.ReleaseDate = lo.ToPtr(time.UnixMilli(int64(released)))
	}

	return episode, nil
}

func episodeToTable(L *lua.LState, episode *catalog.Episode) *lua.LTable {
	table := L.NewTable()
	table.RawSetString("id", lua.LString(episode.ID))
	table.RawSetString("url", lua.LString(episode.URL))
	table.RawSetString("title", lua.LString(episode.Title))
	table.RawSetString("name", lua.LString(episode.Title))
	table.RawSetString("number", lua.LNumber(episode.Number))
	return table
}

func videoFromTable(table *lua.LTable, _ int) (*catalog.Video, error) {
	url := stringField(table, "url", "")
	if url == "" {
		return nil, fmt.Errorf("%w: video must have a url", ErrInvalidResult)
	}

	video := &catalog.Video{
		URL:       url,
		Title:     stringField(table, "title", ""),
		Quality:   stringField(table, "quality", ""),
		Extension: stringField(table, "extension", ""),
	}

	if headers, ok := table.RawGetString("headers").(*lua.LTable); ok {
		video.Headers = stringMap(headers)
	}

	if subtitles, ok := table.RawGetString("subtitles").(*lua.LTable); ok {
		for _, sub := range tables(subtitles) {
			if url := stringField(sub, "url", ""); url != "" {
				video.Subtitles = append(video.Subtitles, catalog.Subtitle{
					URL:      url,
					Language: firstString(sub, "language", "lang"),
				})
			}
		}
	}

	return video, nil
}

// countField reads a comment counter. The strings "disabled" and "hidden" select the
// matching sentinels; an absent field is disabled.
func countField(table *lua.LTable, key string) catalog.Count {
	value := table.RawGetString(key)
	if s, ok := value.(lua.LString); ok {
		switch strings.ToLower(string(s)) {
		case "hidden":
			return catalog.Hidden
		case "disabled":
			return catalog.Disabled
		}
	}

	if n, ok := numberField(table, key); ok {
		return catalog.Count(n)
	}
	return catalog.Disabled
}

func commentFromTable(table *lua.LTable) *catalog.Comment {
	comment := &catalog.Comment{
		ID:           stringField(table, "id", ""),
		Text:         stringField(table, "text", ""),
		AuthorName:   firstString(table, "author", "author_name"),
		AuthorAvatar: firstString(table, "avatar", "author_avatar"),
		Date:         stringField(table, "date", ""),
		Likes:        countField(table, "likes"),
		Dislikes:     countField(table, "dislikes"),
		Comments:     countField(table, "comments"),
		CanComment:   lua.LVAsBool(table.RawGetString("can_comment")),
	}

	if votes, ok := numberField(table, "votes"); ok {
		comment.Votes = lo.ToPtr(int(votes))
	}

	if items, ok := table.RawGetString("items").(*lua.LTable); ok {
		for _, item := range tables(items) {
			comment.Items = append(comment.Items, commentFromTable(item))
		}
	}

	return comment
}

func commentToTable(L *lua.LState, comment *catalog.Comment) lua.LValue {
	if comment == nil {
		return lua.LNil
	}

	table := L.NewTable()
	table.RawSetString("id", lua.LString(comment.ID))
	table.RawSetString("text", lua.LString(comment.Text))
	table.RawSetString("author", lua.LString(comment.AuthorName))
	return table
}
