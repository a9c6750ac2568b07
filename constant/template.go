package constant

// Global functions a Lua extension may define. SearchMediaFn is mandatory.
const (
	SearchMediaFn   = "SearchMedia"
	MediaEpisodesFn = "MediaEpisodes"
	EpisodeVideosFn = "EpisodeVideos"
	MediaCommentsFn = "MediaComments"
	PostCommentFn   = "PostComment"

	// PriorityVar is an optional global number ordering the provider.
	PriorityVar = "Priority"
)

// ManifestTemplate scaffolds the manifest of a new Lua extension package.
const ManifestTemplate = `id = "{{ .ID }}"
name = "{{ .Name }}"
version = "1.0.0"
lang = "{{ .Lang }}"
features = ["{{ .Feature }}"]

[metadata]
"{{ .MainMeta }}" = "main.lua"
"{{ .NSFWMeta }}" = "0"
`

// SourceTemplate is a text/template scaffolding a Lua extension script.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias media { id: string, title: string, url: string, poster: string|nil, description: string|nil, genres: string|nil, status: string|nil, type: string|nil }
---@alias episode { id: string, title: string, url: string, number: number|nil }
---@alias video { url: string, quality: string|nil, headers: table|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----
{{ .PriorityVar }} = 0
--- END VARIABLES ---



----- MAIN -----

--- Searches for media with given query.
-- @param query string Query to search for, empty for the default listing
-- @param page number Page, starting from 0
-- @return media[] Table of media
function {{ .SearchMediaFn }}(query, page)
	return {}
end


--- Gets the list of all media episodes.
-- @param media media The media selected by the user
-- @return episode[] Table of episodes
function {{ .MediaEpisodesFn }}(media)
	return {}
end


--- Gets the streams of an episode.
-- @param episode episode The episode selected by the user
-- @return video[] Table of videos
function {{ .EpisodeVideosFn }}(episode)
	return {}
end

--- END MAIN ---
`
