// internal/model/prospect.go
package model

type Prospect struct {
    ID         string  `db:"id" json:"id"`
    Name       string  `db:"name" json:"name"`
    AvatarURL  string  `db:"avatar_url" json:"avatar_url"`
    Status     string  `db:"status" json:"status"`
    ProfileURL string  `db:"profile_url" json:"profile_url"`
    JobTitle   *string `db:"job_title" json:"job_title,omitempty"`
    Company    *string `db:"company" json:"company,omitempty"`
}
