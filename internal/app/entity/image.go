package entity

type Image struct {
	ObjectID string `json:"object_id"`
	URL      string `json:"url"`
}

func (i Image) Empty() bool {
	return len(i.ObjectID) == 0
}
