// package media is a read through proxy for avatar images.
package media

import (
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/flocksocial/flock/internal/httpx"
	"github.com/flocksocial/flock/models"
	"github.com/go-chi/chi/v5"
	"github.com/nfnt/resize"
)

const maxAvatarSize = 400

const defaultAvatar = "https://avatars.githubusercontent.com/u/1024?v=4"

// Avatar fetches the account's avatar from wherever its reference points,
// downscales it, and serves it as PNG. Upstream failures are the upstream's
// fault, not ours.
func Avatar(env *models.Env, w http.ResponseWriter, r *http.Request) error {
	var account models.Account
	if err := env.DB.Take(&account, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		return httpx.Error(http.StatusNotFound, err)
	}
	return fetch(w, stringOrDefault(account.Avatar, defaultAvatar))
}

func fetch(w http.ResponseWriter, url string) error {
	resp, err := http.DefaultClient.Get(url)
	if err != nil {
		return httpx.Error(http.StatusBadGateway, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpx.Error(http.StatusBadGateway, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return httpx.Error(http.StatusBadGateway, err)
	}
	img = resize.Thumbnail(maxAvatarSize, maxAvatarSize, img, resize.Lanczos3)
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	return png.Encode(w, img)
}

func stringOrDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
