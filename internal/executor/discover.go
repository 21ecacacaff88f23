package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	examplesSelectID = "examples"
	channelsSelectID = "chan-cfsm"
)

// Option is one entry of a selector
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Catalog lists the selector contents the server offers
type Catalog struct {
	Examples []Option `json:"examples" yaml:"examples"`
	Channels []Option `json:"channels" yaml:"channels"`
}

// Discover reads the server index page and extracts the example and channel selectors
func (c *Client) Discover(ctx context.Context) (Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Catalog{}, err
	}
	defer resp.Body.Close()

	if !IsSuccessStatus(resp.StatusCode) {
		return Catalog{}, fmt.Errorf("index page returned %d", resp.StatusCode)
	}

	cat, err := ParseIndex(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Catalog{}, err
	}
	c.logger.Debug("catalog discovered", "examples", len(cat.Examples), "channels", len(cat.Channels))
	return cat, nil
}

// ParseIndex extracts the selector options from an index page
func ParseIndex(r io.Reader) (Catalog, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to parse index page: %w", err)
	}

	var cat Catalog
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Select {
			switch attr(n, "id") {
			case examplesSelectID:
				cat.Examples = options(n)
				return
			case channelsSelectID:
				cat.Channels = options(n)
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	return cat, nil
}

func options(sel *html.Node) []Option {
	var out []Option
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Option {
			label := strings.TrimSpace(text(n))
			value, ok := attrOK(n, "value")
			if !ok {
				value = label
			}
			out = append(out, Option{Value: value, Label: label})
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(sel)
	return out
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
