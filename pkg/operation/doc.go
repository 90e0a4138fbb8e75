/*
Package operation runs upload sessions: it finds the local images a Markdown
document references, uploads them one at a time and rewrites the references
to the returned urls.

	+-------------+
	|    Scan     |
	| (markdown)  |
	+------+------+
	       |
	+------+------+     +-------------+
	|   Resolve   | --> |  WithRetry  |
	| (per image) |     |  (upload)   |
	+------+------+     +------+------+
	       |                   |
	+------+------+            |
	|   Record    | <----------+
	|  (Session)  |
	+------+------+
	       |
	+------+------+
	| ApplyEdits  |
	| (Document)  |
	+-------------+

🎯 Purpose:
- Drives scan, resolve, retry-upload and record for each local image
- Paces images with a fixed interval
- Collects replacements and applies them once, at the end

🔄 Flow:
1. Scan the document text once; drop remote and ignored references
2. Total is the number of references left and never changes
3. For each reference: resolve, upload with retries, record the outcome
4. Apply all replacements as a single edit
5. Report a summary

🤝 Interfaces:
- Document: text, directory and batched edits
- Attempter: one upload attempt (upload.Executor)
- status.Reporter: progress and notices

📝 Failure handling:
A failed image is counted on the Session and reported, and the session moves
on. Run only returns an error when the context is cancelled, the edit fails
or something panics. On cancellation the replacements already collected are
still applied.
*/
package operation
