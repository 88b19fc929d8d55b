package instapaper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// AddBookmarkParams are the inputs to bookmarks/add. URL is required unless
// IsPrivateFromSource is set, in which case Content stands alone and the
// service never fetches anything.
type AddBookmarkParams struct {
	URL                 string
	Title               string // supplied titles skip the service's synchronous lookup
	Description         string
	FolderID            string
	Content             string // full page HTML, or just the body element's content
	IsPrivateFromSource string // source label for private bookmarks, e.g. "Scientific journal"
	NoResolveFinalURL   bool   // set when URL is already final (not shortened/proxied)
}

// AddBookmark creates a bookmark and returns the created bookmark object.
func (c *Client) AddBookmark(ctx context.Context, p AddBookmarkParams) (*Bookmark, error) {
	if p.URL == "" && p.IsPrivateFromSource == "" {
		return nil, fmt.Errorf("url is required for non-private bookmarks")
	}

	form := url.Values{}
	setNonEmpty(form, "url", p.URL)
	setNonEmpty(form, "title", p.Title)
	setNonEmpty(form, "description", p.Description)
	setNonEmpty(form, "folder_id", p.FolderID)
	setNonEmpty(form, "content", p.Content)
	setNonEmpty(form, "is_private_from_source", p.IsPrivateFromSource)
	if p.NoResolveFinalURL {
		form.Set("resolve_final_url", "0")
	} else {
		form.Set("resolve_final_url", "1")
	}

	objects, err := c.postObjects(ctx, "bookmarks/add", form)
	if err != nil {
		return nil, err
	}
	var bm Bookmark
	if err := unmarshalFirst(objects, "bookmark", &bm); err != nil {
		return nil, fmt.Errorf("bookmarks/add: %w", err)
	}
	return &bm, nil
}

// ListBookmarksParams are the inputs to bookmarks/list.
type ListBookmarksParams struct {
	Limit      int      // 1-500, service default 25
	FolderID   string   // unread (default), starred, archive, or a folder_id
	Have       []string // bookmark_id values the client already has
	Highlights []string // highlight IDs the client already has
}

// ListBookmarks lists bookmarks in a folder.
func (c *Client) ListBookmarks(ctx context.Context, p ListBookmarksParams) ([]Bookmark, error) {
	form := url.Values{}
	if p.Limit > 0 {
		form.Set("limit", strconv.Itoa(p.Limit))
	}
	setNonEmpty(form, "folder_id", p.FolderID)
	setNonEmpty(form, "have", strings.Join(p.Have, ","))
	setNonEmpty(form, "highlights", strings.Join(p.Highlights, "-"))

	objects, err := c.postObjects(ctx, "bookmarks/list", form)
	if err != nil {
		return nil, err
	}
	return unmarshalAll[Bookmark](objects, "bookmark")
}

// DeleteBookmark permanently deletes a bookmark. Success is an empty list.
func (c *Client) DeleteBookmark(ctx context.Context, bookmarkID int64) error {
	_, err := c.post(ctx, "bookmarks/delete", bookmarkForm(bookmarkID))
	return err
}

// StarBookmark stars a bookmark.
func (c *Client) StarBookmark(ctx context.Context, bookmarkID int64) (*Bookmark, error) {
	return c.bookmarkAction(ctx, "bookmarks/star", bookmarkForm(bookmarkID))
}

// ArchiveBookmark moves a bookmark to the archive.
func (c *Client) ArchiveBookmark(ctx context.Context, bookmarkID int64) (*Bookmark, error) {
	return c.bookmarkAction(ctx, "bookmarks/archive", bookmarkForm(bookmarkID))
}

// UnarchiveBookmark moves a bookmark back to unread.
func (c *Client) UnarchiveBookmark(ctx context.Context, bookmarkID int64) (*Bookmark, error) {
	return c.bookmarkAction(ctx, "bookmarks/unarchive", bookmarkForm(bookmarkID))
}

// MoveBookmark moves a bookmark to a folder.
func (c *Client) MoveBookmark(ctx context.Context, bookmarkID int64, folderID string) (*Bookmark, error) {
	form := bookmarkForm(bookmarkID)
	form.Set("folder_id", folderID)
	return c.bookmarkAction(ctx, "bookmarks/move", form)
}

// GetBookmarkText returns the processed article HTML for a bookmark. This
// endpoint responds with text/html rather than a JSON object list.
func (c *Client) GetBookmarkText(ctx context.Context, bookmarkID int64) (string, error) {
	body, err := c.post(ctx, "bookmarks/get_text", bookmarkForm(bookmarkID))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) bookmarkAction(ctx context.Context, endpoint string, form url.Values) (*Bookmark, error) {
	objects, err := c.postObjects(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	var bm Bookmark
	if err := unmarshalFirst(objects, "bookmark", &bm); err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return &bm, nil
}

func bookmarkForm(bookmarkID int64) url.Values {
	return url.Values{"bookmark_id": {strconv.FormatInt(bookmarkID, 10)}}
}

func setNonEmpty(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}
