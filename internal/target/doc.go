/*
Package target provides a structured, type-safe representation for task
references within a workspace, based on the canonical format `scope:task`.

The scope is one of:

	app:build    a specific project (by id or alias)
	:build       every project that declares the task
	^:build      the dependencies of the project being processed
	~:build      the project being processed

The relative scopes (`^` and `~`) only make sense while resolving a task's
own dependencies; a run request must use an absolute scope.
*/
package target
