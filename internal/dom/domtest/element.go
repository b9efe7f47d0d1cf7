package domtest

import (
	"strings"

	"go-startup-automation/internal/dom"

	"github.com/PuerkitoBio/goquery"
)

var nonEditableInputs = map[string]bool{
	"button": true, "submit": true, "reset": true, "checkbox": true,
	"radio": true, "hidden": true, "image": true, "file": true,
}

// Element is a node of the fake page. Clicks and fills are recorded on the page
// under the element's id (or the selector that found it).
type Element struct {
	page     *Page
	sel      *goquery.Selection
	selector string
}

func (e *Element) key() string {
	if id, ok := e.sel.Attr("id"); ok && id != "" {
		return "#" + id
	}
	return e.selector
}

func (e *Element) IsVisible() (bool, error) {
	return !dom.Hidden(e.sel), nil
}

func (e *Element) IsEnabled() (bool, error) {
	if _, ok := e.sel.Attr("disabled"); ok {
		return false, nil
	}
	if e.sel.AttrOr("aria-disabled", "") == "true" {
		return false, nil
	}
	return e.sel.Closest("fieldset[disabled]").Length() == 0, nil
}

func (e *Element) IsEditable() (bool, error) {
	enabled, _ := e.IsEnabled()
	if !enabled {
		return false, nil
	}
	if _, ok := e.sel.Attr("readonly"); ok {
		return false, nil
	}
	switch goquery.NodeName(e.sel) {
	case "textarea", "select":
		return true, nil
	case "input":
		return !nonEditableInputs[strings.ToLower(e.sel.AttrOr("type", "text"))], nil
	}
	return e.sel.AttrOr("contenteditable", "") == "true", nil
}

func (e *Element) Click() error {
	e.page.Clicks = append(e.page.Clicks, e.key())
	if e.page.OnClick != nil {
		e.page.OnClick(e.page, e.key())
	}
	return nil
}

func (e *Element) Press(key string) error {
	e.page.Presses = append(e.page.Presses, e.key()+":"+key)
	if e.page.OnPress != nil {
		e.page.OnPress(e.page, e.key(), key)
	}
	return nil
}

func (e *Element) Fill(value string) error {
	e.page.Fills[e.key()] = value
	return nil
}

func (e *Element) ScrollIntoView() error { return nil }

func (e *Element) Text() (string, error) {
	return dom.InnerText(e.sel), nil
}

func (e *Element) Attr(name string) (string, error) {
	return e.sel.AttrOr(name, ""), nil
}
