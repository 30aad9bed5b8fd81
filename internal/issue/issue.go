// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	TargetNotFoundId Id = iota + 1
	ImportsNotFoundId
	EmptySectionId
	WriteFailedId
	ConfigLoadFailedId
	AlreadyImportedId
	AmbiguousMatchId
	IncompleteDirectiveId
	InvalidRemoveItemId
	UnknownSectionId
	InvalidEntryId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal Markdown using a glamour style name
// such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if links := append(i.DocLinks(), i.extLinks...); len(links) > 0 {
		md += "\n\n## See also\n"
		for _, link := range links {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

const nilesoftDocs HttpLink = "https://nilesoft.org/docs"

var (
	render = glamour.Render

	targetNotFoundIssue = &Issue{
		id: TargetNotFoundId,
		mdMsg: `
# Managed file not found!

The file holding the hide, more and shift sections does not exist.

## Things you can try:
- Point the editor at your Nilesoft Shell directory:
~~~
$ nssedit --root "C:/Program Files/Nilesoft Shell" show
~~~

- Or name the file explicitly:
~~~
$ nssedit --file imports/modify.nss show
~~~

- Set ` + "`files.project_root`" + ` in your config so you do not have to repeat it:
~~~
$ nssedit config init
~~~`,
		docLinks: []HttpLink{nilesoftDocs},
	}

	importsNotFoundIssue = &Issue{
		id: ImportsNotFoundId,
		mdMsg: `
# Imports file not found!

Import lines live in the main Nilesoft Shell file (` + "`shell.nss`" + ` by default),
which could not be read.

## Things you can try:
- Check the project root: ` + "`nssedit config show`" + `
- Name the file explicitly with ` + "`--imports path/to/shell.nss`",
		docLinks: []HttpLink{nilesoftDocs},
	}

	emptySectionIssue = &Issue{
		id: EmptySectionId,
		mdMsg: `
# A section cannot be empty!

Every managed section must keep at least one id, otherwise Nilesoft Shell
would load an ` + "`this.id()`" + ` call with no arguments. Nothing was written.

## Things you can try:
- Keep at least one id in the list
- Move the last id to another section before removing it`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Could not write the file!

The edit was computed but the file could not be replaced. The original file
is left as it was.

## Things you can try:
- Check that you may write to the directory (Nilesoft Shell is often
  installed under *Program Files*, which needs an elevated shell)
- Check that no other program holds the file open
- Retry with ` + "`--verbose`" + ` for the underlying error`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be read or does not match the
schema.

## Things you can try:
- Print the file being used: ` + "`nssedit config path`" + `
- Compare with the defaults: ` + "`nssedit config dump`" + `
- Regenerate a fresh file: ` + "`nssedit config init --force`",
	}

	alreadyImportedIssue = &Issue{
		id: AlreadyImportedId,
		mdMsg: `
# Already imported!

The imports file already contains this path. Nothing was changed.

## Things you can try:
- List current imports: ` + "`nssedit import list`",
	}

	ambiguousMatchIssue = &Issue{
		id: AmbiguousMatchId,
		mdMsg: `
# More than one directive matched!

Substring matching treats *find*, *title* and *icon* as fragments, so one
request can match several modify lines.

## Things you can try:
- Preview first: ` + "`nssedit modify delete --dry-run ...`" + `
- Match whole fields instead: ` + "`nssedit modify delete --exact ...`" + `
- Set ` + "`directives.match_strategy: \"exact\"`" + ` in your config`,
	}

	incompleteDirectiveIssue = &Issue{
		id: IncompleteDirectiveId,
		mdMsg: `
# Incomplete modify directive!

A modify directive needs both a *find* and a *title* value; *icon* is optional.

## Example:
~~~
$ nssedit modify add --find "Open" --title "Launch" --icon "icons/open.ico"
~~~`,
		docLinks: []HttpLink{nilesoftDocs},
	}

	invalidRemoveItemIssue = &Issue{
		id: InvalidRemoveItemId,
		mdMsg: `
# Invalid remove item!

Remove items are stored as ` + "`remove(find=\"a|b|c\")`" + `, so an item cannot be
empty or contain a pipe, a double quote or a line break.`,
	}

	unknownSectionIssue = &Issue{
		id: UnknownSectionId,
		mdMsg: `
# Unknown section!

The managed sections are:

| Section | Effect |
|---------|--------|
| hide    | item is removed from the menu |
| more    | item moves into the "more options" submenu |
| shift   | item shows only while Shift is held |`,
	}

	invalidEntryIssue = &Issue{
		id: InvalidEntryId,
		mdMsg: `
# Not an id!

Section entries are Nilesoft Shell menu ids such as ` + "`id.copy`" + ` or
` + "`id.open_in_new_window`" + `. Only lines starting with ` + "`id`" + ` belong to a
section, so anything else could never be edited again. Nothing was written.

## Things you can try:
- List the ids not used by any section: ` + "`nssedit ids available`" + `
- Filter them by name: ` + "`nssedit ids available --filter copy`",
		docLinks: []HttpLink{nilesoftDocs},
	}

	issues = map[Id]*Issue{
		targetNotFoundIssue.Id():      targetNotFoundIssue,
		importsNotFoundIssue.Id():     importsNotFoundIssue,
		emptySectionIssue.Id():        emptySectionIssue,
		writeFailedIssue.Id():         writeFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		alreadyImportedIssue.Id():     alreadyImportedIssue,
		ambiguousMatchIssue.Id():      ambiguousMatchIssue,
		incompleteDirectiveIssue.Id(): incompleteDirectiveIssue,
		invalidRemoveItemIssue.Id():   invalidRemoveItemIssue,
		unknownSectionIssue.Id():      unknownSectionIssue,
		invalidEntryIssue.Id():        invalidEntryIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
