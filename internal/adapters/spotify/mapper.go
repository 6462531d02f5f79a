package spotify

import "github.com/purushottamk3112/MoodVibe/internal/core/domain"

// mapTrackToSong projects a raw catalog track onto the canonical Song shape.
// Only the first credited artist is kept; the image URL is the first album
// image when the catalog returned any.
func mapTrackToSong(st spotifyTrack) domain.Song {
	artist := "Unknown Artist"
	if len(st.Artists) > 0 && st.Artists[0].Name != "" {
		artist = st.Artists[0].Name
	}

	song := domain.Song{
		ID:         st.ID,
		Name:       st.Name,
		Artist:     artist,
		Album:      st.Album.Name,
		SpotifyURL: st.ExternalURLs.Spotify,
		PreviewURL: st.PreviewURL,
	}
	if len(st.Album.Images) > 0 {
		song.ImageURL = st.Album.Images[0].URL
	}
	return song
}

// dedupeTracks keeps the first occurrence of each (name, first artist) pair,
// preserving catalog order. The key is deliberately not the catalog id:
// identically titled duplicates from different releases collapse.
func dedupeTracks(tracks []spotifyTrack) []spotifyTrack {
	type key struct {
		name   string
		artist string
	}
	seen := make(map[key]struct{}, len(tracks))
	unique := make([]spotifyTrack, 0, len(tracks))
	for _, tr := range tracks {
		k := key{name: tr.Name}
		if len(tr.Artists) > 0 {
			k.artist = tr.Artists[0].Name
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, tr)
	}
	return unique
}
