package instapaper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListFolders lists the account's folders.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	objects, err := c.postObjects(ctx, "folders/list", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalAll[Folder](objects, "folder")
}

// AddFolder creates a folder with the given title.
func (c *Client) AddFolder(ctx context.Context, title string) (*Folder, error) {
	objects, err := c.postObjects(ctx, "folders/add", url.Values{"title": {title}})
	if err != nil {
		return nil, err
	}
	var f Folder
	if err := unmarshalFirst(objects, "folder", &f); err != nil {
		return nil, fmt.Errorf("folders/add: %w", err)
	}
	return &f, nil
}

// DeleteFolder deletes a folder. Contained bookmarks move to the archive.
func (c *Client) DeleteFolder(ctx context.Context, folderID int64) error {
	_, err := c.post(ctx, "folders/delete",
		url.Values{"folder_id": {strconv.FormatInt(folderID, 10)}})
	return err
}

// SetFolderOrder sets the folder sort order. order is a comma-separated
// list of folderid:position pairs covering all folders.
func (c *Client) SetFolderOrder(ctx context.Context, order string) ([]Folder, error) {
	objects, err := c.postObjects(ctx, "folders/set_order", url.Values{"order": {order}})
	if err != nil {
		return nil, err
	}
	return unmarshalAll[Folder](objects, "folder")
}

// BookmarkHighlights returns the highlights for a bookmark.
func (c *Client) BookmarkHighlights(ctx context.Context, bookmarkID int64) ([]Highlight, error) {
	endpoint := fmt.Sprintf("bookmarks/%d/highlights", bookmarkID)
	objects, err := c.postObjects(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return unmarshalAll[Highlight](objects, "highlight")
}

// AddHighlight creates a highlight on a bookmark at the given text position.
func (c *Client) AddHighlight(ctx context.Context, bookmarkID int64, text string, position int64) (*Highlight, error) {
	endpoint := fmt.Sprintf("bookmarks/%d/highlight", bookmarkID)
	form := url.Values{
		"text":     {text},
		"position": {strconv.FormatInt(position, 10)},
	}
	objects, err := c.postObjects(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	var h Highlight
	if err := unmarshalFirst(objects, "highlight", &h); err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return &h, nil
}

// DeleteHighlight deletes a highlight.
func (c *Client) DeleteHighlight(ctx context.Context, highlightID int64) error {
	endpoint := fmt.Sprintf("highlights/%d/delete", highlightID)
	_, err := c.post(ctx, endpoint, nil)
	return err
}
