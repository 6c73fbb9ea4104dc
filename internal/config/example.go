package config

// ExampleConfig is a commented config file listing every key with its default.
const ExampleConfig = `# todo configuration

[api]
base_url = "http://localhost:8000"
timeout_seconds = 10

[storage]
path = "~/.local/share/todo/todo.db"

[log]
level = "info"   # debug, info, warn, error
file = "~/.local/share/todo/todo.log"

[session]
stub_user_id = 1      # user id written into locally issued tokens
token_ttl_hours = 24
check_seconds = 5     # how often the stored session is re-read

[ui]
theme = "tokyo-night" # tokyo-night, light
`
