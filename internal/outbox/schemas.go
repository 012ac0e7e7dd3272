package outbox

const activityLoggedSchema = `{
  "type": "object",
  "title": "ActivityLogged",
  "properties": {
    "activity_id": {"type": "string"},
    "user_id": {"type": "string"},
    "name": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "start_time": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
    "end_time": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
    "duration_min": {"type": "integer", "minimum": 0},
    "values": {"type": "array", "items": {"type": "string"}},
    "source": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "user_id", "name", "date", "start_time", "duration_min", "values", "source", "occurred_at"],
  "additionalProperties": false
}`

const activityDeletedSchema = `{
  "type": "object",
  "title": "ActivityDeleted",
  "properties": {
    "activity_id": {"type": "string"},
    "user_id": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "user_id", "occurred_at"],
  "additionalProperties": false
}`

const profileUpdatedSchema = `{
  "type": "object",
  "title": "ProfileUpdated",
  "properties": {
    "user_id": {"type": "string"},
    "values": {"type": "array", "items": {"type": "string"}},
    "priorities": {"type": "object", "additionalProperties": {"type": "number"}},
    "definitions": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "values", "priorities", "definitions", "occurred_at"],
  "additionalProperties": false
}`
