/*
Package sstable implements the writer half of an immutable sorted-table
(SSTable) format for an LSM-tree key/value store: a prefix-compressed,
optionally Bloom-filtered, CRC-protected sequence of data blocks plus the
metaindex, index and footer that make the file self-describing.

Data Structure Documentation

Table

A table is a sequence of data blocks, an optional filter block, a
metaindex block, an index block and a fixed-size footer.

    Table layout:
    +---------+---------+---------+--------+------------+-------+--------+
    | block 1 |   ...   | block n | filter | metaindex  | index | footer |
    +---------+---------+---------+--------+------------+-------+--------+

Block trailer

Every block (data, filter, metaindex, index) is followed immediately by a
5-byte trailer: a compression-type byte and a masked CRC32C checksum that
covers the block's payload plus that type byte.

    +----------------------+-------------------------+
    | compression (1 byte) | masked crc32c (4 bytes) |
    +----------------------+-------------------------+

Data block

A data block holds a sequence of prefix-compressed entries followed by a
restart-point trailer used for binary search.

    +----------------+--------------------+-----------+----------+  ...
    | shared (varint) | non_shared (varint) | val_len (varint) | key_tail | value |
    +----------------+--------------------+-----------+----------+  ...
    ... +-------------------+------------------+
        | restarts (u32 LE * R) | R (u32 LE) |
    ... +-------------------+------------------+

Filter block

    +--------+-------+-----+----------+-------------------+---------------+-----------+
    | filter 0 | ... | filter N-1 | offset 0 (u32 LE) | ... | offset N-1 | array_offset (u32 LE) | base_lg (1 byte) |
    +--------+-------+-----+----------+-------------------+---------------+-----------+

Footer

The footer is always exactly 48 bytes and sits at the very end of the
file; it is the sole anchor a reader needs to find everything else.

    +------------------------+---------------------+--------------+------------+
    | metaindex handle (var) | index handle (var) | zero padding | magic (8B) |
    +------------------------+---------------------+--------------+------------+

A BlockHandle is encoded as two consecutive varint64s: offset then size.
*/
package sstable
