// Package chunk prepares normalized lecture text for synthesis. It splits
// text into word-bounded chunks, strips markdown from generated content and
// removes characters a speech engine cannot pronounce.
package chunk
