package cart

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
)

// AddURL is the upstream checkout entry point for a product.
func AddURL(base string, productID int) string {
	q := url.Values{"product_id": {strconv.Itoa(productID)}}
	return strings.TrimSuffix(base, "/") + "/cart/add/?" + q.Encode()
}

// HandleAdd hands the learner off to the upstream checkout.
func HandleAdd(base string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(r.URL.Query().Get("product_id"))
		if err != nil || id <= 0 {
			return weberr.BadRequest(errors.New("product_id is required"))
		}

		return web.Redirect(w, r, AddURL(base, id))
	}
}
