// Package ui holds the terminal pieces of the shell built on bubbletea's Elm architecture.
//
//   - [SaveDialog] : asks where a download should be written. [PromptDialog] is the
//     interactive bubbles text input, [FixedDialog] accepts the suggestion unasked.
//   - [HistoryModel] : browses the download history in a bubbles list.
//
// The [Palette] styles are shared with the CLI for its plain output.
package ui
