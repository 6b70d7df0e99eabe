package apiregistryv1

import (
	"github.com/fulldump/box"
)

func BuildV1(v1 *box.R) *box.R {

	views := v1.Resource("/views").
		WithActions(
			box.Get(listViews),
			box.Post(createView),
		)

	v1.Resource("/views/{viewName}").
		WithActions(
			box.Get(getView),
			box.ActionPost(items),
			box.ActionPost(drop),
		)

	v1.Resource("/services").
		WithActions(
			box.Get(listServices),
			box.Post(registerService),
			box.ActionPost(find),
		)

	v1.Resource("/services/{serviceId}").
		WithActions(
			box.Get(getService),
			box.ActionPost(modify),
			box.ActionPost(unregister),
		)

	return views
}
